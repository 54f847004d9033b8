// Package api defines the messages of the invoicer.v1 RPC services. Dates
// travel as "2006-01-02" strings, timestamps as Unix seconds and documents
// as raw bytes (base64 in JSON).
package api

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// User is a registered account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Line is one billable row. Amount is the text typed in the editor; it is
// parsed leniently and malformed input counts as zero.
type Line struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
}

// Amounts is a money block.
type Amounts struct {
	Subtotal float64 `json:"subtotal"`
	Tax1     float64 `json:"tax1"`
	Tax2     float64 `json:"tax2"`
	Total    float64 `json:"total"`
}

// TaxInfo is the tax configuration captured on an invoice when it was saved.
type TaxInfo struct {
	Enabled bool    `json:"enabled"`
	Rate1   float64 `json:"rate1"`
	Rate2   float64 `json:"rate2"`
	Label1  string  `json:"label1"`
	Label2  string  `json:"label2"`
	Number1 string  `json:"number1,omitempty"`
	Number2 string  `json:"number2,omitempty"`
}

// Invoice is an issued invoice or a draft. Amounts are exact; Display holds
// the same values rounded to cents.
type Invoice struct {
	ID             string  `json:"id"`
	Number         int64   `json:"number"`
	Label          string  `json:"label"`
	IsDraft        bool    `json:"is_draft"`
	NumberDegraded bool    `json:"number_degraded,omitempty"`
	ClientName     string  `json:"client_name"`
	ClientEmail    string  `json:"client_email,omitempty"`
	Date           string  `json:"date"`
	DueDate        string  `json:"due_date"`
	Lines          []Line  `json:"lines"`
	Amounts        Amounts `json:"amounts"`
	Display        Amounts `json:"display"`
	TotalText      string  `json:"total_text"`
	Tax            TaxInfo `json:"tax"`
	Overdue        bool    `json:"overdue"`
	CreatedAt      int64   `json:"created_at"`
}

// InvoiceForm is the editor state sent on submit or draft save. Empty Date
// means today; empty DueDate means the configured payment term.
type InvoiceForm struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email,omitempty"`
	Date        string `json:"date,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Lines       []Line `json:"lines"`
}

type PreviewTotalsRequest struct {
	Lines []Line `json:"lines"`
}

type PreviewTotalsResponse struct {
	Exact     Amounts `json:"exact"`
	Display   Amounts `json:"display"`
	TotalText string  `json:"total_text"`
}

type SubmitInvoiceRequest struct {
	Invoice InvoiceForm `json:"invoice"`
}

// SubmitInvoiceResponse carries the persisted invoice. When rendering
// failed, Document is empty and RenderError says why; the invoice is kept.
type SubmitInvoiceResponse struct {
	Invoice     *Invoice `json:"invoice"`
	Document    []byte   `json:"document,omitempty"`
	FileName    string   `json:"file_name,omitempty"`
	RenderError string   `json:"render_error,omitempty"`
}

type SaveDraftRequest struct {
	Invoice InvoiceForm `json:"invoice"`
}

type SaveDraftResponse struct {
	Invoice *Invoice `json:"invoice"`
}

type ListInvoicesRequest struct {
	Search string `json:"search,omitempty"`
	Period string `json:"period,omitempty"`
	Sort   string `json:"sort,omitempty"`

	// OverdueOnly restricts the listing to issued invoices past due.
	OverdueOnly bool `json:"overdue_only,omitempty"`
}

// ListInvoicesResponse is a filtered listing. Unavailable reports that the
// store could not be read, which is not the same as having no invoices.
type ListInvoicesResponse struct {
	Invoices    []*Invoice `json:"invoices"`
	Count       int        `json:"count"`
	Unavailable bool       `json:"unavailable,omitempty"`
}

type GetInvoiceRequest struct {
	ID string `json:"id"`
}

type GetInvoiceResponse struct {
	Invoice *Invoice `json:"invoice"`
}

type DeleteInvoiceRequest struct {
	ID string `json:"id"`
}

type DeleteInvoiceResponse struct{}

type RenderInvoiceRequest struct {
	ID string `json:"id"`
}

type RenderInvoiceResponse struct {
	Document []byte `json:"document"`
	FileName string `json:"file_name"`
}

type SendInvoiceEmailRequest struct {
	ID string `json:"id"`
}

type SendInvoiceEmailResponse struct {
	MessageID string `json:"message_id"`
	Recipient string `json:"recipient"`
}

// ExportRequest selects no options today; it exists so exports can grow
// filters without a wire break.
type ExportRequest struct{}

type ExportResponse struct {
	Data     []byte `json:"data"`
	FileName string `json:"file_name"`
	Rows     int    `json:"rows"`
}

// Expense is a recorded business expense. Photo is only filled when the
// listing asked for photos.
type Expense struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	CategoryLabel string  `json:"category_label"`
	HasPhoto      bool    `json:"has_photo"`
	Photo         []byte  `json:"photo,omitempty"`
	PhotoType     string  `json:"photo_type,omitempty"`
	CreatedAt     int64   `json:"created_at"`
}

type AddExpenseRequest struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Photo       []byte  `json:"photo,omitempty"`
	PhotoType   string  `json:"photo_type,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	Search        string `json:"search,omitempty"`
	Category      string `json:"category,omitempty"`
	Period        string `json:"period,omitempty"`
	Sort          string `json:"sort,omitempty"`
	IncludePhotos bool   `json:"include_photos,omitempty"`
}

// ListExpensesResponse carries the filtered expenses. Total sums every
// expense of the account; FilteredTotal sums the listed ones.
type ListExpensesResponse struct {
	Expenses      []*Expense `json:"expenses"`
	Count         int        `json:"count"`
	Total         float64    `json:"total"`
	FilteredTotal float64    `json:"filtered_total"`
	Unavailable   bool       `json:"unavailable,omitempty"`
}

type DeleteExpenseRequest struct {
	ID string `json:"id"`
}

type DeleteExpenseResponse struct{}

type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
}

type ListClientsRequest struct{}

type ListClientsResponse struct {
	Clients     []*Client `json:"clients"`
	Unavailable bool      `json:"unavailable,omitempty"`
}

type UpsertClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpsertClientResponse struct {
	Client  *Client `json:"client"`
	Created bool    `json:"created"`
}

type DeleteClientRequest struct {
	ID string `json:"id"`
}

type DeleteClientResponse struct{}

// Profile is the issuer identity and tax configuration.
type Profile struct {
	Name          string  `json:"name"`
	BusinessType  string  `json:"business_type,omitempty"`
	ServiceLabel  string  `json:"service_label,omitempty"`
	Address       string  `json:"address,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Email         string  `json:"email,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	TaxesEnabled  bool    `json:"taxes_enabled"`
	TaxRate1      float64 `json:"tax_rate1"`
	TaxRate2      float64 `json:"tax_rate2"`
	TaxLabel1     string  `json:"tax_label1,omitempty"`
	TaxLabel2     string  `json:"tax_label2,omitempty"`
	TaxNumber1    string  `json:"tax_number1,omitempty"`
	TaxNumber2    string  `json:"tax_number2,omitempty"`
	UpdatedAt     int64   `json:"updated_at,omitempty"`
}

type GetProfileRequest struct{}

// GetProfileResponse has a nil Profile until one is saved.
type GetProfileResponse struct {
	Profile *Profile `json:"profile"`
}

type SaveProfileRequest struct {
	Profile Profile `json:"profile"`
}

type SaveProfileResponse struct {
	Profile *Profile `json:"profile"`
}

type GmailAuthURLRequest struct {
	State string `json:"state,omitempty"`
}

type GmailAuthURLResponse struct {
	URL string `json:"url"`
}

type ConnectGmailRequest struct {
	Code string `json:"code"`
}

type ConnectGmailResponse struct {
	ConnectedAt int64 `json:"connected_at"`
}

type DisconnectGmailRequest struct{}

type DisconnectGmailResponse struct{}

type GmailStatusRequest struct{}

type GmailStatusResponse struct {
	Configured  bool  `json:"configured"`
	Connected   bool  `json:"connected"`
	ConnectedAt int64 `json:"connected_at,omitempty"`
}
