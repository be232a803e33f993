// Copyright (c) 2026 Maria. All rights reserved.

/*
Package report collects viewer-submitted problem reports (dead mirror,
wrong episode, broken page) and exposes them to the back office.
*/
package report

import (
	"context"
	"time"
)

// Status values of a report's review lifecycle.
const (
	StatusNew      = "new"
	StatusResolved = "resolved"
)

// Report is one viewer-submitted problem.
type Report struct {
	ID        string    `json:"id"`
	PageURL   string    `json:"page_url"`
	Message   string    `json:"message"`
	Reporter  string    `json:"reporter,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines the data access contract for reports.
type Repository interface {

	/*
		Create persists a new report.
	*/
	Create(context context.Context, report *Report) error

	/*
		List returns reports newest-first with the total count.
	*/
	List(context context.Context, limit, offset int) ([]*Report, int, error)

	/*
		UpdateStatus sets the review status of one report.
	*/
	UpdateStatus(context context.Context, id, status string) error

	/*
		Delete removes one report.
	*/
	Delete(context context.Context, id string) error

	/*
		Count returns the total number of reports.
	*/
	Count(context context.Context) (int, error)
}
