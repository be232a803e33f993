// Copyright (c) 2026 Maria. All rights reserved.

package report

import (
	"context"

	"github.com/lelipitri23-dev/Maria/internal/platform/validate"
	"github.com/lelipitri23-dev/Maria/pkg/pagination"
	"github.com/lelipitri23-dev/Maria/pkg/uuidv7"
)

const maxMessageLength = 2000

// Service implements report submission and back-office review.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Input is the public submission payload. Reporter is optional free text,
// never an account reference.
type Input struct {
	PageURL  string `json:"page_url"`
	Message  string `json:"message"`
	Reporter string `json:"reporter"`
}

// Submit validates and stores a viewer report.
func (service *Service) Submit(context context.Context, input Input) (*Report, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required("page_url", input.PageURL).
		Required("message", input.Message).
		MaxLen("message", input.Message, maxMessageLength).
		Err(); err != nil {
		return nil, err
	}

	record := &Report{
		ID:       uuidv7.New(),
		PageURL:  input.PageURL,
		Message:  input.Message,
		Reporter: input.Reporter,
		Status:   StatusNew,
	}
	if err := service.repo.Create(context, record); err != nil {
		return nil, err
	}
	return record, nil
}

// List returns reports newest-first for the back office.
func (service *Service) List(context context.Context, params pagination.Params) ([]*Report, pagination.Meta, error) {
	records, total, err := service.repo.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return records, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Resolve marks a report as handled.
func (service *Service) Resolve(context context.Context, id string) error {
	return service.repo.UpdateStatus(context, id, StatusResolved)
}

// Delete removes a report.
func (service *Service) Delete(context context.Context, id string) error {
	return service.repo.Delete(context, id)
}

// Count reports the total for the admin dashboard.
func (service *Service) Count(context context.Context) (int, error) {
	return service.repo.Count(context)
}
