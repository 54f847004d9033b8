package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/pkg/api"
)

// Fully-qualified service names.
const (
	AuthServiceName    = "invoicer.v1.AuthService"
	InvoiceServiceName = "invoicer.v1.InvoiceService"
	ExpenseServiceName = "invoicer.v1.ExpenseService"
	ClientServiceName  = "invoicer.v1.ClientService"
	ProfileServiceName = "invoicer.v1.ProfileService"
	GmailServiceName   = "invoicer.v1.GmailService"
)

// Procedure paths, usable as route keys and in interceptors.
const (
	AuthServiceRegisterProcedure            = "/invoicer.v1.AuthService/Register"
	AuthServiceLoginProcedure               = "/invoicer.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure      = "/invoicer.v1.AuthService/GetCurrentUser"
	InvoiceServicePreviewTotalsProcedure    = "/invoicer.v1.InvoiceService/PreviewTotals"
	InvoiceServiceSubmitInvoiceProcedure    = "/invoicer.v1.InvoiceService/SubmitInvoice"
	InvoiceServiceSaveDraftProcedure        = "/invoicer.v1.InvoiceService/SaveDraft"
	InvoiceServiceListInvoicesProcedure     = "/invoicer.v1.InvoiceService/ListInvoices"
	InvoiceServiceGetInvoiceProcedure       = "/invoicer.v1.InvoiceService/GetInvoice"
	InvoiceServiceDeleteInvoiceProcedure    = "/invoicer.v1.InvoiceService/DeleteInvoice"
	InvoiceServiceRenderInvoiceProcedure    = "/invoicer.v1.InvoiceService/RenderInvoice"
	InvoiceServiceSendInvoiceEmailProcedure = "/invoicer.v1.InvoiceService/SendInvoiceEmail"
	InvoiceServiceExportInvoicesProcedure   = "/invoicer.v1.InvoiceService/ExportInvoices"
	ExpenseServiceAddExpenseProcedure       = "/invoicer.v1.ExpenseService/AddExpense"
	ExpenseServiceListExpensesProcedure     = "/invoicer.v1.ExpenseService/ListExpenses"
	ExpenseServiceDeleteExpenseProcedure    = "/invoicer.v1.ExpenseService/DeleteExpense"
	ExpenseServiceExportExpensesProcedure   = "/invoicer.v1.ExpenseService/ExportExpenses"
	ClientServiceListClientsProcedure       = "/invoicer.v1.ClientService/ListClients"
	ClientServiceUpsertClientProcedure      = "/invoicer.v1.ClientService/UpsertClient"
	ClientServiceDeleteClientProcedure      = "/invoicer.v1.ClientService/DeleteClient"
	ProfileServiceGetProfileProcedure       = "/invoicer.v1.ProfileService/GetProfile"
	ProfileServiceSaveProfileProcedure      = "/invoicer.v1.ProfileService/SaveProfile"
	GmailServiceGmailAuthURLProcedure       = "/invoicer.v1.GmailService/GmailAuthURL"
	GmailServiceConnectGmailProcedure       = "/invoicer.v1.GmailService/ConnectGmail"
	GmailServiceDisconnectGmailProcedure    = "/invoicer.v1.GmailService/DisconnectGmail"
	GmailServiceGmailStatusProcedure        = "/invoicer.v1.GmailService/GmailStatus"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for every AuthService procedure
// and returns the path prefix to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceGetCurrentUserProcedure, connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	return "/" + AuthServiceName + "/", mux
}

// AuthServiceClient is a client for AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

type authServiceClient struct {
	register       *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login          *connect.Client[api.LoginRequest, api.LoginResponse]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

// NewAuthServiceClient returns a client for the AuthService at baseURL,
// e.g. "http://localhost:8080".
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	opts = clientOptions(opts)
	return &authServiceClient{
		register:       connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// InvoiceServiceHandler is implemented by the server side of InvoiceService.
type InvoiceServiceHandler interface {
	PreviewTotals(context.Context, *connect.Request[api.PreviewTotalsRequest]) (*connect.Response[api.PreviewTotalsResponse], error)
	SubmitInvoice(context.Context, *connect.Request[api.SubmitInvoiceRequest]) (*connect.Response[api.SubmitInvoiceResponse], error)
	SaveDraft(context.Context, *connect.Request[api.SaveDraftRequest]) (*connect.Response[api.SaveDraftResponse], error)
	ListInvoices(context.Context, *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error)
	GetInvoice(context.Context, *connect.Request[api.GetInvoiceRequest]) (*connect.Response[api.GetInvoiceResponse], error)
	DeleteInvoice(context.Context, *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error)
	RenderInvoice(context.Context, *connect.Request[api.RenderInvoiceRequest]) (*connect.Response[api.RenderInvoiceResponse], error)
	SendInvoiceEmail(context.Context, *connect.Request[api.SendInvoiceEmailRequest]) (*connect.Response[api.SendInvoiceEmailResponse], error)
	ExportInvoices(context.Context, *connect.Request[api.ExportRequest]) (*connect.Response[api.ExportResponse], error)
}

// NewInvoiceServiceHandler builds an HTTP handler for every InvoiceService procedure
// and returns the path prefix to mount it on.
func NewInvoiceServiceHandler(svc InvoiceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(InvoiceServicePreviewTotalsProcedure, connect.NewUnaryHandler(InvoiceServicePreviewTotalsProcedure, svc.PreviewTotals, opts...))
	mux.Handle(InvoiceServiceSubmitInvoiceProcedure, connect.NewUnaryHandler(InvoiceServiceSubmitInvoiceProcedure, svc.SubmitInvoice, opts...))
	mux.Handle(InvoiceServiceSaveDraftProcedure, connect.NewUnaryHandler(InvoiceServiceSaveDraftProcedure, svc.SaveDraft, opts...))
	mux.Handle(InvoiceServiceListInvoicesProcedure, connect.NewUnaryHandler(InvoiceServiceListInvoicesProcedure, svc.ListInvoices, opts...))
	mux.Handle(InvoiceServiceGetInvoiceProcedure, connect.NewUnaryHandler(InvoiceServiceGetInvoiceProcedure, svc.GetInvoice, opts...))
	mux.Handle(InvoiceServiceDeleteInvoiceProcedure, connect.NewUnaryHandler(InvoiceServiceDeleteInvoiceProcedure, svc.DeleteInvoice, opts...))
	mux.Handle(InvoiceServiceRenderInvoiceProcedure, connect.NewUnaryHandler(InvoiceServiceRenderInvoiceProcedure, svc.RenderInvoice, opts...))
	mux.Handle(InvoiceServiceSendInvoiceEmailProcedure, connect.NewUnaryHandler(InvoiceServiceSendInvoiceEmailProcedure, svc.SendInvoiceEmail, opts...))
	mux.Handle(InvoiceServiceExportInvoicesProcedure, connect.NewUnaryHandler(InvoiceServiceExportInvoicesProcedure, svc.ExportInvoices, opts...))
	return "/" + InvoiceServiceName + "/", mux
}

// InvoiceServiceClient is a client for InvoiceService.
type InvoiceServiceClient interface {
	PreviewTotals(context.Context, *connect.Request[api.PreviewTotalsRequest]) (*connect.Response[api.PreviewTotalsResponse], error)
	SubmitInvoice(context.Context, *connect.Request[api.SubmitInvoiceRequest]) (*connect.Response[api.SubmitInvoiceResponse], error)
	SaveDraft(context.Context, *connect.Request[api.SaveDraftRequest]) (*connect.Response[api.SaveDraftResponse], error)
	ListInvoices(context.Context, *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error)
	GetInvoice(context.Context, *connect.Request[api.GetInvoiceRequest]) (*connect.Response[api.GetInvoiceResponse], error)
	DeleteInvoice(context.Context, *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error)
	RenderInvoice(context.Context, *connect.Request[api.RenderInvoiceRequest]) (*connect.Response[api.RenderInvoiceResponse], error)
	SendInvoiceEmail(context.Context, *connect.Request[api.SendInvoiceEmailRequest]) (*connect.Response[api.SendInvoiceEmailResponse], error)
	ExportInvoices(context.Context, *connect.Request[api.ExportRequest]) (*connect.Response[api.ExportResponse], error)
}

type invoiceServiceClient struct {
	previewTotals    *connect.Client[api.PreviewTotalsRequest, api.PreviewTotalsResponse]
	submitInvoice    *connect.Client[api.SubmitInvoiceRequest, api.SubmitInvoiceResponse]
	saveDraft        *connect.Client[api.SaveDraftRequest, api.SaveDraftResponse]
	listInvoices     *connect.Client[api.ListInvoicesRequest, api.ListInvoicesResponse]
	getInvoice       *connect.Client[api.GetInvoiceRequest, api.GetInvoiceResponse]
	deleteInvoice    *connect.Client[api.DeleteInvoiceRequest, api.DeleteInvoiceResponse]
	renderInvoice    *connect.Client[api.RenderInvoiceRequest, api.RenderInvoiceResponse]
	sendInvoiceEmail *connect.Client[api.SendInvoiceEmailRequest, api.SendInvoiceEmailResponse]
	exportInvoices   *connect.Client[api.ExportRequest, api.ExportResponse]
}

// NewInvoiceServiceClient returns a client for the InvoiceService at baseURL,
// e.g. "http://localhost:8080".
func NewInvoiceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) InvoiceServiceClient {
	opts = clientOptions(opts)
	return &invoiceServiceClient{
		previewTotals:    connect.NewClient[api.PreviewTotalsRequest, api.PreviewTotalsResponse](httpClient, baseURL+InvoiceServicePreviewTotalsProcedure, opts...),
		submitInvoice:    connect.NewClient[api.SubmitInvoiceRequest, api.SubmitInvoiceResponse](httpClient, baseURL+InvoiceServiceSubmitInvoiceProcedure, opts...),
		saveDraft:        connect.NewClient[api.SaveDraftRequest, api.SaveDraftResponse](httpClient, baseURL+InvoiceServiceSaveDraftProcedure, opts...),
		listInvoices:     connect.NewClient[api.ListInvoicesRequest, api.ListInvoicesResponse](httpClient, baseURL+InvoiceServiceListInvoicesProcedure, opts...),
		getInvoice:       connect.NewClient[api.GetInvoiceRequest, api.GetInvoiceResponse](httpClient, baseURL+InvoiceServiceGetInvoiceProcedure, opts...),
		deleteInvoice:    connect.NewClient[api.DeleteInvoiceRequest, api.DeleteInvoiceResponse](httpClient, baseURL+InvoiceServiceDeleteInvoiceProcedure, opts...),
		renderInvoice:    connect.NewClient[api.RenderInvoiceRequest, api.RenderInvoiceResponse](httpClient, baseURL+InvoiceServiceRenderInvoiceProcedure, opts...),
		sendInvoiceEmail: connect.NewClient[api.SendInvoiceEmailRequest, api.SendInvoiceEmailResponse](httpClient, baseURL+InvoiceServiceSendInvoiceEmailProcedure, opts...),
		exportInvoices:   connect.NewClient[api.ExportRequest, api.ExportResponse](httpClient, baseURL+InvoiceServiceExportInvoicesProcedure, opts...),
	}
}

func (c *invoiceServiceClient) PreviewTotals(ctx context.Context, req *connect.Request[api.PreviewTotalsRequest]) (*connect.Response[api.PreviewTotalsResponse], error) {
	return c.previewTotals.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) SubmitInvoice(ctx context.Context, req *connect.Request[api.SubmitInvoiceRequest]) (*connect.Response[api.SubmitInvoiceResponse], error) {
	return c.submitInvoice.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) SaveDraft(ctx context.Context, req *connect.Request[api.SaveDraftRequest]) (*connect.Response[api.SaveDraftResponse], error) {
	return c.saveDraft.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) ListInvoices(ctx context.Context, req *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error) {
	return c.listInvoices.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) GetInvoice(ctx context.Context, req *connect.Request[api.GetInvoiceRequest]) (*connect.Response[api.GetInvoiceResponse], error) {
	return c.getInvoice.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) DeleteInvoice(ctx context.Context, req *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error) {
	return c.deleteInvoice.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) RenderInvoice(ctx context.Context, req *connect.Request[api.RenderInvoiceRequest]) (*connect.Response[api.RenderInvoiceResponse], error) {
	return c.renderInvoice.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) SendInvoiceEmail(ctx context.Context, req *connect.Request[api.SendInvoiceEmailRequest]) (*connect.Response[api.SendInvoiceEmailResponse], error) {
	return c.sendInvoiceEmail.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) ExportInvoices(ctx context.Context, req *connect.Request[api.ExportRequest]) (*connect.Response[api.ExportResponse], error) {
	return c.exportInvoices.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the server side of ExpenseService.
type ExpenseServiceHandler interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ExportExpenses(context.Context, *connect.Request[api.ExportRequest]) (*connect.Response[api.ExportResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler for every ExpenseService procedure
// and returns the path prefix to mount it on.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ExpenseServiceAddExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(ExpenseServiceListExpensesProcedure, connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(ExpenseServiceDeleteExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(ExpenseServiceExportExpensesProcedure, connect.NewUnaryHandler(ExpenseServiceExportExpensesProcedure, svc.ExportExpenses, opts...))
	return "/" + ExpenseServiceName + "/", mux
}

// ExpenseServiceClient is a client for ExpenseService.
type ExpenseServiceClient interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ExportExpenses(context.Context, *connect.Request[api.ExportRequest]) (*connect.Response[api.ExportResponse], error)
}

type expenseServiceClient struct {
	addExpense     *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	listExpenses   *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	deleteExpense  *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	exportExpenses *connect.Client[api.ExportRequest, api.ExportResponse]
}

// NewExpenseServiceClient returns a client for the ExpenseService at baseURL,
// e.g. "http://localhost:8080".
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	opts = clientOptions(opts)
	return &expenseServiceClient{
		addExpense:     connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+ExpenseServiceAddExpenseProcedure, opts...),
		listExpenses:   connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		deleteExpense:  connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		exportExpenses: connect.NewClient[api.ExportRequest, api.ExportResponse](httpClient, baseURL+ExpenseServiceExportExpensesProcedure, opts...),
	}
}

func (c *expenseServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ExportExpenses(ctx context.Context, req *connect.Request[api.ExportRequest]) (*connect.Response[api.ExportResponse], error) {
	return c.exportExpenses.CallUnary(ctx, req)
}

// ClientServiceHandler is implemented by the server side of ClientService.
type ClientServiceHandler interface {
	ListClients(context.Context, *connect.Request[api.ListClientsRequest]) (*connect.Response[api.ListClientsResponse], error)
	UpsertClient(context.Context, *connect.Request[api.UpsertClientRequest]) (*connect.Response[api.UpsertClientResponse], error)
	DeleteClient(context.Context, *connect.Request[api.DeleteClientRequest]) (*connect.Response[api.DeleteClientResponse], error)
}

// NewClientServiceHandler builds an HTTP handler for every ClientService procedure
// and returns the path prefix to mount it on.
func NewClientServiceHandler(svc ClientServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ClientServiceListClientsProcedure, connect.NewUnaryHandler(ClientServiceListClientsProcedure, svc.ListClients, opts...))
	mux.Handle(ClientServiceUpsertClientProcedure, connect.NewUnaryHandler(ClientServiceUpsertClientProcedure, svc.UpsertClient, opts...))
	mux.Handle(ClientServiceDeleteClientProcedure, connect.NewUnaryHandler(ClientServiceDeleteClientProcedure, svc.DeleteClient, opts...))
	return "/" + ClientServiceName + "/", mux
}

// ClientServiceClient is a client for ClientService.
type ClientServiceClient interface {
	ListClients(context.Context, *connect.Request[api.ListClientsRequest]) (*connect.Response[api.ListClientsResponse], error)
	UpsertClient(context.Context, *connect.Request[api.UpsertClientRequest]) (*connect.Response[api.UpsertClientResponse], error)
	DeleteClient(context.Context, *connect.Request[api.DeleteClientRequest]) (*connect.Response[api.DeleteClientResponse], error)
}

type clientServiceClient struct {
	listClients  *connect.Client[api.ListClientsRequest, api.ListClientsResponse]
	upsertClient *connect.Client[api.UpsertClientRequest, api.UpsertClientResponse]
	deleteClient *connect.Client[api.DeleteClientRequest, api.DeleteClientResponse]
}

// NewClientServiceClient returns a client for the ClientService at baseURL,
// e.g. "http://localhost:8080".
func NewClientServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ClientServiceClient {
	opts = clientOptions(opts)
	return &clientServiceClient{
		listClients:  connect.NewClient[api.ListClientsRequest, api.ListClientsResponse](httpClient, baseURL+ClientServiceListClientsProcedure, opts...),
		upsertClient: connect.NewClient[api.UpsertClientRequest, api.UpsertClientResponse](httpClient, baseURL+ClientServiceUpsertClientProcedure, opts...),
		deleteClient: connect.NewClient[api.DeleteClientRequest, api.DeleteClientResponse](httpClient, baseURL+ClientServiceDeleteClientProcedure, opts...),
	}
}

func (c *clientServiceClient) ListClients(ctx context.Context, req *connect.Request[api.ListClientsRequest]) (*connect.Response[api.ListClientsResponse], error) {
	return c.listClients.CallUnary(ctx, req)
}

func (c *clientServiceClient) UpsertClient(ctx context.Context, req *connect.Request[api.UpsertClientRequest]) (*connect.Response[api.UpsertClientResponse], error) {
	return c.upsertClient.CallUnary(ctx, req)
}

func (c *clientServiceClient) DeleteClient(ctx context.Context, req *connect.Request[api.DeleteClientRequest]) (*connect.Response[api.DeleteClientResponse], error) {
	return c.deleteClient.CallUnary(ctx, req)
}

// ProfileServiceHandler is implemented by the server side of ProfileService.
type ProfileServiceHandler interface {
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	SaveProfile(context.Context, *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error)
}

// NewProfileServiceHandler builds an HTTP handler for every ProfileService procedure
// and returns the path prefix to mount it on.
func NewProfileServiceHandler(svc ProfileServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ProfileServiceGetProfileProcedure, connect.NewUnaryHandler(ProfileServiceGetProfileProcedure, svc.GetProfile, opts...))
	mux.Handle(ProfileServiceSaveProfileProcedure, connect.NewUnaryHandler(ProfileServiceSaveProfileProcedure, svc.SaveProfile, opts...))
	return "/" + ProfileServiceName + "/", mux
}

// ProfileServiceClient is a client for ProfileService.
type ProfileServiceClient interface {
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	SaveProfile(context.Context, *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error)
}

type profileServiceClient struct {
	getProfile  *connect.Client[api.GetProfileRequest, api.GetProfileResponse]
	saveProfile *connect.Client[api.SaveProfileRequest, api.SaveProfileResponse]
}

// NewProfileServiceClient returns a client for the ProfileService at baseURL,
// e.g. "http://localhost:8080".
func NewProfileServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProfileServiceClient {
	opts = clientOptions(opts)
	return &profileServiceClient{
		getProfile:  connect.NewClient[api.GetProfileRequest, api.GetProfileResponse](httpClient, baseURL+ProfileServiceGetProfileProcedure, opts...),
		saveProfile: connect.NewClient[api.SaveProfileRequest, api.SaveProfileResponse](httpClient, baseURL+ProfileServiceSaveProfileProcedure, opts...),
	}
}

func (c *profileServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *profileServiceClient) SaveProfile(ctx context.Context, req *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error) {
	return c.saveProfile.CallUnary(ctx, req)
}

// GmailServiceHandler is implemented by the server side of GmailService.
type GmailServiceHandler interface {
	GmailAuthURL(context.Context, *connect.Request[api.GmailAuthURLRequest]) (*connect.Response[api.GmailAuthURLResponse], error)
	ConnectGmail(context.Context, *connect.Request[api.ConnectGmailRequest]) (*connect.Response[api.ConnectGmailResponse], error)
	DisconnectGmail(context.Context, *connect.Request[api.DisconnectGmailRequest]) (*connect.Response[api.DisconnectGmailResponse], error)
	GmailStatus(context.Context, *connect.Request[api.GmailStatusRequest]) (*connect.Response[api.GmailStatusResponse], error)
}

// NewGmailServiceHandler builds an HTTP handler for every GmailService procedure
// and returns the path prefix to mount it on.
func NewGmailServiceHandler(svc GmailServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(GmailServiceGmailAuthURLProcedure, connect.NewUnaryHandler(GmailServiceGmailAuthURLProcedure, svc.GmailAuthURL, opts...))
	mux.Handle(GmailServiceConnectGmailProcedure, connect.NewUnaryHandler(GmailServiceConnectGmailProcedure, svc.ConnectGmail, opts...))
	mux.Handle(GmailServiceDisconnectGmailProcedure, connect.NewUnaryHandler(GmailServiceDisconnectGmailProcedure, svc.DisconnectGmail, opts...))
	mux.Handle(GmailServiceGmailStatusProcedure, connect.NewUnaryHandler(GmailServiceGmailStatusProcedure, svc.GmailStatus, opts...))
	return "/" + GmailServiceName + "/", mux
}

// GmailServiceClient is a client for GmailService.
type GmailServiceClient interface {
	GmailAuthURL(context.Context, *connect.Request[api.GmailAuthURLRequest]) (*connect.Response[api.GmailAuthURLResponse], error)
	ConnectGmail(context.Context, *connect.Request[api.ConnectGmailRequest]) (*connect.Response[api.ConnectGmailResponse], error)
	DisconnectGmail(context.Context, *connect.Request[api.DisconnectGmailRequest]) (*connect.Response[api.DisconnectGmailResponse], error)
	GmailStatus(context.Context, *connect.Request[api.GmailStatusRequest]) (*connect.Response[api.GmailStatusResponse], error)
}

type gmailServiceClient struct {
	gmailAuthURL    *connect.Client[api.GmailAuthURLRequest, api.GmailAuthURLResponse]
	connectGmail    *connect.Client[api.ConnectGmailRequest, api.ConnectGmailResponse]
	disconnectGmail *connect.Client[api.DisconnectGmailRequest, api.DisconnectGmailResponse]
	gmailStatus     *connect.Client[api.GmailStatusRequest, api.GmailStatusResponse]
}

// NewGmailServiceClient returns a client for the GmailService at baseURL,
// e.g. "http://localhost:8080".
func NewGmailServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GmailServiceClient {
	opts = clientOptions(opts)
	return &gmailServiceClient{
		gmailAuthURL:    connect.NewClient[api.GmailAuthURLRequest, api.GmailAuthURLResponse](httpClient, baseURL+GmailServiceGmailAuthURLProcedure, opts...),
		connectGmail:    connect.NewClient[api.ConnectGmailRequest, api.ConnectGmailResponse](httpClient, baseURL+GmailServiceConnectGmailProcedure, opts...),
		disconnectGmail: connect.NewClient[api.DisconnectGmailRequest, api.DisconnectGmailResponse](httpClient, baseURL+GmailServiceDisconnectGmailProcedure, opts...),
		gmailStatus:     connect.NewClient[api.GmailStatusRequest, api.GmailStatusResponse](httpClient, baseURL+GmailServiceGmailStatusProcedure, opts...),
	}
}

func (c *gmailServiceClient) GmailAuthURL(ctx context.Context, req *connect.Request[api.GmailAuthURLRequest]) (*connect.Response[api.GmailAuthURLResponse], error) {
	return c.gmailAuthURL.CallUnary(ctx, req)
}

func (c *gmailServiceClient) ConnectGmail(ctx context.Context, req *connect.Request[api.ConnectGmailRequest]) (*connect.Response[api.ConnectGmailResponse], error) {
	return c.connectGmail.CallUnary(ctx, req)
}

func (c *gmailServiceClient) DisconnectGmail(ctx context.Context, req *connect.Request[api.DisconnectGmailRequest]) (*connect.Response[api.DisconnectGmailResponse], error) {
	return c.disconnectGmail.CallUnary(ctx, req)
}

func (c *gmailServiceClient) GmailStatus(ctx context.Context, req *connect.Request[api.GmailStatusRequest]) (*connect.Response[api.GmailStatusResponse], error) {
	return c.gmailStatus.CallUnary(ctx, req)
}
