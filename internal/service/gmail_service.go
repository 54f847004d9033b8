package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/pkg/api"
)

// GmailConnector manages the per-account Gmail authorization.
type GmailConnector interface {
	Configured() bool
	AuthURL(state string) (string, error)
	Connect(ctx context.Context, accountID, code string) (*models.GmailToken, error)
	Disconnect(ctx context.Context, accountID string) error
	Status(ctx context.Context, accountID string) (*models.GmailToken, error)
}

// GmailService implements the GmailService RPC interface.
type GmailService struct {
	gmail GmailConnector
}

func NewGmailService(gmail GmailConnector) *GmailService {
	return &GmailService{gmail: gmail}
}

// GmailAuthURL returns the Google consent page to start a connection.
func (s *GmailService) GmailAuthURL(ctx context.Context, req *connect.Request[api.GmailAuthURLRequest]) (*connect.Response[api.GmailAuthURLResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	url, err := s.gmail.AuthURL(req.Msg.State)
	if err != nil {
		return nil, fail("GmailAuthURL failed", err, "account_id", accountID)
	}
	return connect.NewResponse(&api.GmailAuthURLResponse{URL: url}), nil
}

// ConnectGmail finishes the consent flow with the code Google returned.
func (s *GmailService) ConnectGmail(ctx context.Context, req *connect.Request[api.ConnectGmailRequest]) (*connect.Response[api.ConnectGmailResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	tok, err := s.gmail.Connect(ctx, accountID, req.Msg.Code)
	if err != nil {
		return nil, fail("ConnectGmail failed", err, "account_id", accountID)
	}
	return connect.NewResponse(&api.ConnectGmailResponse{ConnectedAt: unix(tok.ConnectedAt)}), nil
}

// DisconnectGmail forgets the stored authorization.
func (s *GmailService) DisconnectGmail(ctx context.Context, req *connect.Request[api.DisconnectGmailRequest]) (*connect.Response[api.DisconnectGmailResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.gmail.Disconnect(ctx, accountID); err != nil {
		return nil, fail("DisconnectGmail failed", err, "account_id", accountID)
	}
	return connect.NewResponse(&api.DisconnectGmailResponse{}), nil
}

// GmailStatus reports whether the server can send mail and whether the
// account is connected.
func (s *GmailService) GmailStatus(ctx context.Context, req *connect.Request[api.GmailStatusRequest]) (*connect.Response[api.GmailStatusResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	resp := &api.GmailStatusResponse{Configured: s.gmail.Configured()}
	tok, err := s.gmail.Status(ctx, accountID)
	if err != nil {
		return nil, fail("GmailStatus failed", err, "account_id", accountID)
	}
	if tok != nil {
		resp.Connected = true
		resp.ConnectedAt = unix(tok.ConnectedAt)
	}
	return connect.NewResponse(resp), nil
}
