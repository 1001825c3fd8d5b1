// Package client habla con la API HTTP del servicio.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"medication-manager/internal/domain/accounts"
	"medication-manager/internal/domain/dashboard"
	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/domain/reminders"
	"medication-manager/internal/platform/httpclient"
)

type Client struct {
	http *httpclient.Client
}

func New(hc *httpclient.Client) *Client {
	return &Client{http: hc}
}

// Login guarda el token devuelto para los próximos requests.
func (c *Client) Login(ctx context.Context, email, password string) (accounts.AuthResponse, error) {
	var out accounts.AuthResponse
	in := map[string]string{"email": strings.TrimSpace(email), "password": password}
	if err := c.http.DoJSON(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return accounts.AuthResponse{}, err
	}
	if out.Token != "" {
		c.http = c.http.WithToken(out.Token)
	}
	return out, nil
}

func (c *Client) Dashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	var out dashboard.DashboardResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/dashboard", nil, &out)
	return out, err
}

func (c *Client) Medicines(ctx context.Context) ([]medicines.MedicineResponse, error) {
	var out []medicines.MedicineResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/medicines", nil, &out)
	return out, err
}

func (c *Client) LowStock(ctx context.Context) ([]medicines.MedicineResponse, error) {
	var out []medicines.MedicineResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/medicines/low-stock", nil, &out)
	return out, err
}

func (c *Client) TakeMedicine(ctx context.Context, id int64) (medicines.MedicineResponse, error) {
	var out medicines.MedicineResponse
	err := c.http.DoJSON(ctx, http.MethodPost, fmt.Sprintf("/medicines/%d/take", id), nil, &out)
	return out, err
}

func (c *Client) Restock(ctx context.Context, id int64, quantity int) (medicines.MedicineResponse, error) {
	var out medicines.MedicineResponse
	in := map[string]int{"quantity": quantity}
	err := c.http.DoJSON(ctx, http.MethodPost, fmt.Sprintf("/medicines/%d/restock", id), in, &out)
	return out, err
}

func (c *Client) OverdueReminders(ctx context.Context) ([]reminders.ReminderResponse, error) {
	var out []reminders.ReminderResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/reminders/overdue", nil, &out)
	return out, err
}

func (c *Client) MarkReminderTaken(ctx context.Context, id int64) (reminders.ReminderResponse, error) {
	var out reminders.ReminderResponse
	err := c.http.DoJSON(ctx, http.MethodPost, fmt.Sprintf("/reminders/%d/taken", id), nil, &out)
	return out, err
}
