package crm

import (
	"context"

	"github.com/google/uuid"

	"github.com/realty/backend/internal/domain/shared"
	"github.com/realty/backend/internal/domain/support"
)

// Field sets shared across documents. The engine exposes snake_case
// columns matching the domain models' json tags.
const (
	customerFields = `id email name phone created_at updated_at`
	ticketFields   = `id customer_id subject body status priority assignee_id created_at updated_at`
	feedbackFields = `id customer_id ticket_id rating comment created_at`
)

func pageArgs(opts support.ListOptions) map[string]interface{} {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	return map[string]interface{}{
		"limit":  limit,
		"offset": opts.Offset,
	}
}

// InsertCustomer inserts a customer and returns the engine-assigned row
func (c *Client) InsertCustomer(ctx context.Context, input support.CustomerInput) (*support.Customer, error) {
	const q = `mutation ($object: customers_insert_input!) {
		insert_customers_one(object: $object) { ` + customerFields + ` }
	}`
	var resp struct {
		Row *support.Customer `json:"insert_customers_one"`
	}
	if err := c.execute(ctx, q, map[string]interface{}{"object": input}, &resp); err != nil {
		return nil, err
	}
	if resp.Row == nil {
		return nil, shared.NewDomainError("EXTERNAL_SERVICE", "Support desk dropped the insert")
	}
	return resp.Row, nil
}

// GetCustomer fetches a customer by ID
func (c *Client) GetCustomer(ctx context.Context, id uuid.UUID) (*support.Customer, error) {
	const q = `query ($id: uuid!) {
		customers_by_pk(id: $id) { ` + customerFields + ` }
	}`
	var resp struct {
		Row *support.Customer `json:"customers_by_pk"`
	}
	if err := c.execute(ctx, q, map[string]interface{}{"id": id}, &resp); err != nil {
		return nil, err
	}
	if resp.Row == nil {
		return nil, shared.ErrNotFound
	}
	return resp.Row, nil
}

// FindCustomerByEmail fetches a customer by email
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*support.Customer, error) {
	const q = `query ($email: String!) {
		customers(where: {email: {_eq: $email}}, limit: 1) { ` + customerFields + ` }
	}`
	var resp struct {
		Rows []support.Customer `json:"customers"`
	}
	if err := c.execute(ctx, q, map[string]interface{}{"email": email}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Rows) == 0 {
		return nil, shared.ErrNotFound
	}
	return &resp.Rows[0], nil
}

// ListCustomers lists customers, newest first
func (c *Client) ListCustomers(ctx context.Context, opts support.ListOptions) ([]support.Customer, error) {
	const q = `query ($limit: Int!, $offset: Int!) {
		customers(order_by: {created_at: desc}, limit: $limit, offset: $offset) { ` + customerFields + ` }
	}`
	var resp struct {
		Rows []support.Customer `json:"customers"`
	}
	if err := c.execute(ctx, q, pageArgs(opts), &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// UpdateCustomer updates a customer's contact fields
func (c *Client) UpdateCustomer(ctx context.Context, id uuid.UUID, input support.CustomerInput) (*support.Customer, error) {
	const q = `mutation ($id: uuid!, $set: customers_set_input!) {
		update_customers_by_pk(pk_columns: {id: $id}, _set: $set) { ` + customerFields + ` }
	}`
	var resp struct {
		Row *support.Customer `json:"update_customers_by_pk"`
	}
	vars := map[string]interface{}{"id": id, "set": input}
	if err := c.execute(ctx, q, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Row == nil {
		return nil, shared.ErrNotFound
	}
	return resp.Row, nil
}

// DeleteCustomer deletes a customer
func (c *Client) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	const q = `mutation ($id: uuid!) {
		delete_customers_by_pk(id: $id) { id }
	}`
	var resp struct {
		Row *struct {
			ID uuid.UUID `json:"id"`
		} `json:"delete_customers_by_pk"`
	}
	if err := c.execute(ctx, q, map[string]interface{}{"id": id}, &resp); err != nil {
		return err
	}
	if resp.Row == nil {
		return shared.ErrNotFound
	}
	return nil
}

// InsertTicket opens a ticket
func (c *Client) InsertTicket(ctx context.Context, input support.TicketInput) (*support.Ticket, error) {
	const q = `mutation ($object: tickets_insert_input!) {
		insert_tickets_one(object: $object) { ` + ticketFields + ` }
	}`
	var resp struct {
		Row *support.Ticket `json:"insert_tickets_one"`
	}
	if err := c.execute(ctx, q, map[string]interface{}{"object": input}, &resp); err != nil {
		return nil, err
	}
	if resp.Row == nil {
		return nil, shared.NewDomainError("EXTERNAL_SERVICE", "Support desk dropped the insert")
	}
	return resp.Row, nil
}

// GetTicket fetches a ticket by ID
func (c *Client) GetTicket(ctx context.Context, id uuid.UUID) (*support.Ticket, error) {
	const q = `query ($id: uuid!) {
		tickets_by_pk(id: $id) { ` + ticketFields + ` }
	}`
	var resp struct {
		Row *support.Ticket `json:"tickets_by_pk"`
	}
	if err := c.execute(ctx, q, map[string]interface{}{"id": id}, &resp); err != nil {
		return nil, err
	}
	if resp.Row == nil {
		return nil, shared.ErrNotFound
	}
	return resp.Row, nil
}

// ListTickets lists tickets, optionally filtered by status
func (c *Client) ListTickets(ctx context.Context, status *support.TicketStatus, opts support.ListOptions) ([]support.Ticket, error) {
	vars := pageArgs(opts)

	q := `query ($limit: Int!, $offset: Int!) {
		tickets(order_by: {created_at: desc}, limit: $limit, offset: $offset) { ` + ticketFields + ` }
	}`
	if status != nil {
		q = `query ($limit: Int!, $offset: Int!, $status: String!) {
			tickets(where: {status: {_eq: $status}}, order_by: {created_at: desc}, limit: $limit, offset: $offset) { ` + ticketFields + ` }
		}`
		vars["status"] = string(*status)
	}

	var resp struct {
		Rows []support.Ticket `json:"tickets"`
	}
	if err := c.execute(ctx, q, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// ListTicketsByCustomer lists a customer's tickets
func (c *Client) ListTicketsByCustomer(ctx context.Context, customerID uuid.UUID, opts support.ListOptions) ([]support.Ticket, error) {
	const q = `query ($customer_id: uuid!, $limit: Int!, $offset: Int!) {
		tickets(where: {customer_id: {_eq: $customer_id}}, order_by: {created_at: desc}, limit: $limit, offset: $offset) { ` + ticketFields + ` }
	}`
	vars := pageArgs(opts)
	vars["customer_id"] = customerID

	var resp struct {
		Rows []support.Ticket `json:"tickets"`
	}
	if err := c.execute(ctx, q, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// UpdateTicketStatus sets a ticket's status
func (c *Client) UpdateTicketStatus(ctx context.Context, id uuid.UUID, status support.TicketStatus) (*support.Ticket, error) {
	const q = `mutation ($id: uuid!, $status: String!) {
		update_tickets_by_pk(pk_columns: {id: $id}, _set: {status: $status}) { ` + ticketFields + ` }
	}`
	var resp struct {
		Row *support.Ticket `json:"update_tickets_by_pk"`
	}
	vars := map[string]interface{}{"id": id, "status": string(status)}
	if err := c.execute(ctx, q, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Row == nil {
		return nil, shared.ErrNotFound
	}
	return resp.Row, nil
}

// AssignTicket sets a ticket's assignee
func (c *Client) AssignTicket(ctx context.Context, id uuid.UUID, assigneeID uuid.UUID) (*support.Ticket, error) {
	const q = `mutation ($id: uuid!, $assignee_id: uuid!) {
		update_tickets_by_pk(pk_columns: {id: $id}, _set: {assignee_id: $assignee_id}) { ` + ticketFields + ` }
	}`
	var resp struct {
		Row *support.Ticket `json:"update_tickets_by_pk"`
	}
	vars := map[string]interface{}{"id": id, "assignee_id": assigneeID}
	if err := c.execute(ctx, q, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Row == nil {
		return nil, shared.ErrNotFound
	}
	return resp.Row, nil
}

// InsertFeedback records customer feedback
func (c *Client) InsertFeedback(ctx context.Context, input support.FeedbackInput) (*support.Feedback, error) {
	const q = `mutation ($object: feedback_insert_input!) {
		insert_feedback_one(object: $object) { ` + feedbackFields + ` }
	}`
	var resp struct {
		Row *support.Feedback `json:"insert_feedback_one"`
	}
	if err := c.execute(ctx, q, map[string]interface{}{"object": input}, &resp); err != nil {
		return nil, err
	}
	if resp.Row == nil {
		return nil, shared.NewDomainError("EXTERNAL_SERVICE", "Support desk dropped the insert")
	}
	return resp.Row, nil
}

// ListFeedback lists feedback, newest first
func (c *Client) ListFeedback(ctx context.Context, opts support.ListOptions) ([]support.Feedback, error) {
	const q = `query ($limit: Int!, $offset: Int!) {
		feedback(order_by: {created_at: desc}, limit: $limit, offset: $offset) { ` + feedbackFields + ` }
	}`
	var resp struct {
		Rows []support.Feedback `json:"feedback"`
	}
	if err := c.execute(ctx, q, pageArgs(opts), &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// ListFeedbackByCustomer lists a customer's feedback
func (c *Client) ListFeedbackByCustomer(ctx context.Context, customerID uuid.UUID, opts support.ListOptions) ([]support.Feedback, error) {
	const q = `query ($customer_id: uuid!, $limit: Int!, $offset: Int!) {
		feedback(where: {customer_id: {_eq: $customer_id}}, order_by: {created_at: desc}, limit: $limit, offset: $offset) { ` + feedbackFields + ` }
	}`
	vars := pageArgs(opts)
	vars["customer_id"] = customerID

	var resp struct {
		Rows []support.Feedback `json:"feedback"`
	}
	if err := c.execute(ctx, q, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// AverageRating returns the mean feedback rating
func (c *Client) AverageRating(ctx context.Context) (float64, error) {
	const q = `query {
		feedback_aggregate { aggregate { avg { rating } } }
	}`
	var resp struct {
		Aggregate struct {
			Aggregate struct {
				Avg struct {
					Rating *float64 `json:"rating"`
				} `json:"avg"`
			} `json:"aggregate"`
		} `json:"feedback_aggregate"`
	}
	if err := c.execute(ctx, q, nil, &resp); err != nil {
		return 0, err
	}
	if resp.Aggregate.Aggregate.Avg.Rating == nil {
		return 0, nil
	}
	return *resp.Aggregate.Aggregate.Avg.Rating, nil
}

// Ensure Client implements support.Store
var _ support.Store = (*Client)(nil)
