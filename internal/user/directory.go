package user

import (
	"context"

	"github.com/wirasatya/business-management/internal/auth"
)

// Directory adapts the user mirror to the lookup the identity resolver
// needs. Users who have not completed registration are invisible to it, so
// a stolen provider token for a pending invite resolves to no identity.
type Directory struct {
	service *Service
}

func NewDirectory(service *Service) *Directory {
	return &Directory{service: service}
}

func (d *Directory) GetByEmail(ctx context.Context, email string) (*auth.DirectoryUser, error) {
	record, err := d.service.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Pending() {
		return nil, nil
	}
	return &auth.DirectoryUser{
		Name: record.Name,
		Role: record.Role,
	}, nil
}
