package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/logger"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/validation"
)

// ClientService validates and stores clients.
type ClientService struct {
	CRUD[model.Client, model.Client]
	clients ClientStore
}

func NewClientService(clients ClientStore) *ClientService {
	return &ClientService{
		CRUD: NewCRUD("clients", Store[model.Client](clients),
			func(c model.Client) uint64 { return c.ID },
			func(c model.Client) model.Client { return c }),
		clients: clients,
	}
}

// Create fails with Conflict when a client with the same name and surname
// exists.
func (s *ClientService) Create(ctx context.Context, req model.ClientRequest) (model.Client, error) {
	req.Name, req.Surname = strings.TrimSpace(req.Name), strings.TrimSpace(req.Surname)
	req.Cash = req.Cash.Round(model.MoneyScale)
	if err := validation.Client.Validate(req); err != nil {
		return model.Client{}, err
	}
	exists, err := s.clients.ExistsByNameAndSurname(ctx, req.Name, req.Surname)
	if err != nil {
		return model.Client{}, err
	}
	if exists {
		return model.Client{}, apperror.Conflict("client %s %s already exists", req.Name, req.Surname)
	}
	c := model.Client{Name: req.Name, Surname: req.Surname, Age: req.Age, Cash: req.Cash}
	if err := s.clients.Create(ctx, &c); err != nil {
		return model.Client{}, err
	}
	logger.Info("client created", zap.Uint64("client_id", c.ID))
	return c, nil
}
