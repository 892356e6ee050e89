package client

import (
	"context"

	"github.com/edscope/edscope/internal/request"
)

// Thin convenience wrappers over Query for the common read paths. Each one is
// exactly Query with the operation name baked in; the injector supplies the
// program/institution context.

func (c *Client) QueryEvents(ctx context.Context, p map[string]string) (*request.Envelope, error) {
	return c.Query(ctx, "eventQuery", p)
}

func (c *Client) QueryRegistrations(ctx context.Context, p map[string]string) (*request.Envelope, error) {
	return c.Query(ctx, "registrationQuery", p)
}

func (c *Client) QueryCandidates(ctx context.Context, p map[string]string) (*request.Envelope, error) {
	return c.Query(ctx, "candidateQuery", p)
}

func (c *Client) QueryScores(ctx context.Context, p map[string]string) (*request.Envelope, error) {
	return c.Query(ctx, "scoreQuery", p)
}

func (c *Client) QueryResults(ctx context.Context, p map[string]string) (*request.Envelope, error) {
	return c.Query(ctx, "resultQuery", p)
}

func (c *Client) QueryExams(ctx context.Context, p map[string]string) (*request.Envelope, error) {
	return c.Query(ctx, "examQuery", p)
}

func (c *Client) QueryAppointments(ctx context.Context, p map[string]string) (*request.Envelope, error) {
	return c.Query(ctx, "appointmentQuery", p)
}

func (c *Client) QueryInstitutions(ctx context.Context, p map[string]string) (*request.Envelope, error) {
	return c.Query(ctx, "institutionQuery", p)
}

func (c *Client) QuerySites(ctx context.Context, p map[string]string) (*request.Envelope, error) {
	return c.Query(ctx, "siteQuery", p)
}

func (c *Client) QueryVouchers(ctx context.Context, p map[string]string) (*request.Envelope, error) {
	return c.Query(ctx, "voucherQuery", p)
}
