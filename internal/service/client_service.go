package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/invoicing"
	"github.com/mmynk/invoicer/pkg/api"
)

// ClientService implements the ClientService RPC interface.
type ClientService struct {
	directory *invoicing.Directory
}

func NewClientService(directory *invoicing.Directory) *ClientService {
	return &ClientService{directory: directory}
}

// ListClients returns the clients ordered by name.
func (s *ClientService) ListClients(ctx context.Context, req *connect.Request[api.ListClientsRequest]) (*connect.Response[api.ListClientsResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	listing, err := s.directory.List(ctx, accountID)
	if err != nil {
		return nil, fail("ListClients failed", err, "account_id", accountID)
	}
	out := make([]*api.Client, len(listing.Clients))
	for i, c := range listing.Clients {
		out[i] = toAPIClient(c)
	}
	return connect.NewResponse(&api.ListClientsResponse{
		Clients:     out,
		Unavailable: listing.Unavailable,
	}), nil
}

// UpsertClient adds a client or renames the one with the same email.
func (s *ClientService) UpsertClient(ctx context.Context, req *connect.Request[api.UpsertClientRequest]) (*connect.Response[api.UpsertClientResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	c, created, err := s.directory.Upsert(ctx, accountID, req.Msg.Name, req.Msg.Email)
	if err != nil {
		return nil, fail("UpsertClient failed", err, "account_id", accountID)
	}
	return connect.NewResponse(&api.UpsertClientResponse{
		Client:  toAPIClient(c),
		Created: created,
	}), nil
}

// DeleteClient removes a client. Existing invoices are untouched.
func (s *ClientService) DeleteClient(ctx context.Context, req *connect.Request[api.DeleteClientRequest]) (*connect.Response[api.DeleteClientResponse], error) {
	accountID, err := account(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.directory.Delete(ctx, accountID, req.Msg.ID); err != nil {
		return nil, fail("DeleteClient failed", err, "account_id", accountID, "client_id", req.Msg.ID)
	}
	return connect.NewResponse(&api.DeleteClientResponse{}), nil
}
