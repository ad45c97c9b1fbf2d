package services

import (
	"context"
	"strings"
	"time"

	"tirupurhomes/internal/domain"
	"tirupurhomes/internal/repos"
	"tirupurhomes/internal/validate"
)

const DefaultInquiryPageSize = 50

type InquiryService struct {
	Inquiries *repos.InquiryRepo
	Now       func() time.Time
}

func NewInquiryService(inquiries *repos.InquiryRepo) *InquiryService {
	return &InquiryService{Inquiries: inquiries}
}

// Create records a contact message from the public site.
func (s *InquiryService) Create(ctx context.Context, in domain.NewInquiry) (domain.Inquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	if err := validate.Struct(in); err != nil {
		return domain.Inquiry{}, err
	}
	q := domain.Inquiry{
		ListingID: in.ListingID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Message:   in.Message,
		CreatedAt: clock(s.Now).now(),
	}
	if err := s.Inquiries.Create(ctx, &q); err != nil {
		return domain.Inquiry{}, err
	}
	return q, nil
}

// List returns inquiries newest first. A zero limit means 50.
func (s *InquiryService) List(ctx context.Context, who domain.Principal, unreadOnly bool, p domain.Page) ([]domain.Inquiry, error) {
	if err := requireAdmin(who, "list inquiries"); err != nil {
		return nil, err
	}
	if p.Limit == 0 {
		p.Limit = DefaultInquiryPageSize
	}
	return s.Inquiries.List(ctx, unreadOnly, p.Normalize())
}

func (s *InquiryService) MarkRead(ctx context.Context, who domain.Principal, id int64) (domain.Inquiry, error) {
	if err := requireAdmin(who, "mark inquiry read"); err != nil {
		return domain.Inquiry{}, err
	}
	if err := s.Inquiries.MarkRead(ctx, id); err != nil {
		return domain.Inquiry{}, err
	}
	return s.Inquiries.Get(ctx, id)
}
