package application

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
	"invitapp/pkg/passcode"
)

const passImageSize = 256

// PassService issues the QR entry pass of confirmed guests.
type PassService struct {
	guestRepo output.GuestRepository
	renderer  output.QRRenderer
}

func NewPassService(guestRepo output.GuestRepository, renderer output.QRRenderer) *PassService {
	return &PassService{
		guestRepo: guestRepo,
		renderer:  renderer,
	}
}

func (s *PassService) Pass(ctx context.Context, eventID, guestID string) (*entities.Pass, error) {
	guest, err := s.guestRepo.FindByID(ctx, eventID, guestID)
	if err != nil {
		return nil, storeError("find guest", domain.ErrStoreUnavailable, err)
	}
	if !guest.HasPass() {
		return nil, domain.ErrPassUnavailable
	}
	token := passcode.Encode(guest.EventID, guest.ID)
	png, err := s.renderer.PNG(token, passImageSize)
	if err != nil {
		return nil, fmt.Errorf("render pass: %w", err)
	}
	return &entities.Pass{Token: token, PNG: png, Guest: *guest}, nil
}

// InvitationLink is the public page where a guest reads the invitation and
// answers it.
func InvitationLink(baseURL, eventID, guestID string) string {
	return strings.TrimRight(baseURL, "/") + "/invitacion/" + url.PathEscape(eventID) + "/" + url.PathEscape(guestID)
}
