package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// AddExpense writes a new expense document.
func (s *FirestoreStore) AddExpense(ctx context.Context, accountID string, exp *models.Expense) error {
	const op = "AddExpense"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	if exp.ID == "" {
		exp.ID = storage.NewID()
	}
	if exp.CreatedAt.IsZero() {
		exp.CreatedAt = time.Now()
	}
	exp.AccountID = accountID

	if _, err := s.sub(accountID, expensesCollection).Doc(exp.ID).Create(ctx, exp); err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to create expense: %w", err))
	}
	return nil
}

// ListExpenses reads every expense document of the account.
func (s *FirestoreStore) ListExpenses(ctx context.Context, accountID string) ([]*models.Expense, error) {
	const op = "ListExpenses"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	var expenses []*models.Expense
	err := eachDoc(s.sub(accountID, expensesCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx),
		func(snap *firestore.DocumentSnapshot) error {
			var exp models.Expense
			if err := snap.DataTo(&exp); err != nil {
				return fmt.Errorf("failed to decode expense %s: %w", snap.Ref.ID, err)
			}
			exp.ID = snap.Ref.ID
			expenses = append(expenses, &exp)
			return nil
		})
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense document.
func (s *FirestoreStore) DeleteExpense(ctx context.Context, accountID, id string) error {
	const op = "DeleteExpense"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}
	return storage.Wrap(op, deleteExisting(ctx, s.sub(accountID, expensesCollection).Doc(id), "expense"))
}

// clientDoc is the stored form of a client, carrying the dedup key.
type clientDoc struct {
	AccountID string    `firestore:"accountId"`
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	EmailKey  string    `firestore:"emailKey"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt,omitempty"`
}

func (d *clientDoc) toModel(id string) *models.Client {
	return &models.Client{
		ID:        id,
		AccountID: d.AccountID,
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// UpsertClient looks up the email key and creates or updates inside one
// transaction, so two concurrent saves of a new email yield one record.
func (s *FirestoreStore) UpsertClient(ctx context.Context, accountID string, c *models.Client) (bool, error) {
	const op = "UpsertClient"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return false, err
	}

	col := s.sub(accountID, clientsCollection)
	key := models.NormalizeEmail(c.Email)
	var (
		created bool
		stored  *models.Client
	)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(col.Where("emailKey", "==", key).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		now := time.Now()

		if len(docs) > 0 {
			var doc clientDoc
			if err := docs[0].DataTo(&doc); err != nil {
				return err
			}
			doc.Name = c.Name
			doc.Email = c.Email
			doc.UpdatedAt = now
			created, stored = false, doc.toModel(docs[0].Ref.ID)
			return tx.Set(docs[0].Ref, &doc)
		}

		ref := col.Doc(storage.NewID())
		doc := clientDoc{AccountID: accountID, Name: c.Name, Email: c.Email, EmailKey: key, CreatedAt: now}
		created, stored = true, doc.toModel(ref.ID)
		return tx.Create(ref, &doc)
	})
	if err != nil {
		return false, storage.Wrap(op, fmt.Errorf("failed to upsert client: %w", err))
	}
	*c = *stored
	return created, nil
}

// ListClients returns the account's clients ordered by name.
func (s *FirestoreStore) ListClients(ctx context.Context, accountID string) ([]*models.Client, error) {
	const op = "ListClients"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}

	var clients []*models.Client
	err := eachDoc(s.sub(accountID, clientsCollection).OrderBy("name", firestore.Asc).Documents(ctx),
		func(snap *firestore.DocumentSnapshot) error {
			var doc clientDoc
			if err := snap.DataTo(&doc); err != nil {
				return fmt.Errorf("failed to decode client %s: %w", snap.Ref.ID, err)
			}
			clients = append(clients, doc.toModel(snap.Ref.ID))
			return nil
		})
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return clients, nil
}

// DeleteClient removes a client document.
func (s *FirestoreStore) DeleteClient(ctx context.Context, accountID, id string) error {
	const op = "DeleteClient"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}
	return storage.Wrap(op, deleteExisting(ctx, s.sub(accountID, clientsCollection).Doc(id), "client"))
}

// accountDoc is the top-level per-account document.
type accountDoc struct {
	InvoiceNumber int64              `firestore:"invoiceNumber"`
	Profile       *models.Profile    `firestore:"profile"`
	GmailTokens   *models.GmailToken `firestore:"gmailTokens"`
}

func (s *FirestoreStore) getAccountDoc(ctx context.Context, accountID string) (*accountDoc, error) {
	snap, err := s.account(accountID).Get(ctx)
	if isNotFound(err) {
		return &accountDoc{}, nil
	}
	if err != nil {
		return nil, err
	}
	var doc accountDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", accountID, err)
	}
	return &doc, nil
}

// GetProfile returns the saved profile, or nil if none exists yet.
func (s *FirestoreStore) GetProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	const op = "GetProfile"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}
	doc, err := s.getAccountDoc(ctx, accountID)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return doc.Profile, nil
}

// SaveProfile replaces the profile field of the account document.
func (s *FirestoreStore) SaveProfile(ctx context.Context, accountID string, p *models.Profile) error {
	const op = "SaveProfile"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	p.UpdatedAt = time.Now()
	_, err := s.account(accountID).Set(ctx, map[string]any{profileField: p}, firestore.Merge([]string{profileField}))
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to save profile: %w", err))
	}
	return nil
}

// GetGmailToken returns the stored token, or nil if not connected.
func (s *FirestoreStore) GetGmailToken(ctx context.Context, accountID string) (*models.GmailToken, error) {
	const op = "GetGmailToken"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return nil, err
	}
	doc, err := s.getAccountDoc(ctx, accountID)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	return doc.GmailTokens, nil
}

// SaveGmailToken replaces the token field of the account document.
func (s *FirestoreStore) SaveGmailToken(ctx context.Context, accountID string, tok *models.GmailToken) error {
	const op = "SaveGmailToken"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	_, err := s.account(accountID).Set(ctx, map[string]any{tokenField: tok}, firestore.Merge([]string{tokenField}))
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to save gmail token: %w", err))
	}
	return nil
}

// DeleteGmailToken removes the token field. A missing account document is
// not an error.
func (s *FirestoreStore) DeleteGmailToken(ctx context.Context, accountID string) error {
	const op = "DeleteGmailToken"
	if err := storage.RequireAccount(op, accountID); err != nil {
		return err
	}

	_, err := s.account(accountID).Update(ctx, []firestore.Update{{Path: tokenField, Value: firestore.Delete}})
	if err != nil && !isNotFound(err) {
		return storage.Wrap(op, fmt.Errorf("failed to delete gmail token: %w", err))
	}
	return nil
}

// CreateUser registers a login keyed by normalized email.
func (s *FirestoreStore) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	_, err := s.client.Collection(loginsCollection).Doc(user.Email).Create(ctx, user)
	if status.Code(err) == codes.AlreadyExists {
		return storage.Wrap("CreateUser", storage.ErrAlreadyExists)
	}
	if err != nil {
		return storage.Wrap("CreateUser", fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

// GetUserByEmail retrieves a user by email, or nil if none matches.
func (s *FirestoreStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	snap, err := s.client.Collection(loginsCollection).Doc(models.NormalizeEmail(email)).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.Wrap("GetUser", fmt.Errorf("failed to get user by email: %w", err))
	}
	var user models.User
	if err := snap.DataTo(&user); err != nil {
		return nil, storage.Wrap("GetUser", fmt.Errorf("failed to decode user: %w", err))
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID, or nil if none matches.
func (s *FirestoreStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	docs, err := s.client.Collection(loginsCollection).Where("id", "==", id).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, storage.Wrap("GetUser", fmt.Errorf("failed to get user by id: %w", err))
	}
	if len(docs) == 0 {
		return nil, nil
	}
	var user models.User
	if err := docs[0].DataTo(&user); err != nil {
		return nil, storage.Wrap("GetUser", fmt.Errorf("failed to decode user: %w", err))
	}
	return &user, nil
}
