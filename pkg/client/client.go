// Package client is a typed HTTP client for the DentaClinic API together
// with cached collections for front ends that hold server state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/services"
)

var ErrNotAuthenticated = errors.New("client: not logged in")

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api: %d %s (field %s)", e.Status, e.Message, e.Field)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	var resp struct {
		Token string          `json:"token"`
		User  models.Identity `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp.User, nil
}

// Logout revokes the current token and forgets it.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*models.Identity, error) {
	var resp struct {
		User models.Identity `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) SuperAdminExists(ctx context.Context) (bool, error) {
	var resp struct {
		Exists bool `json:"superAdminExists"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/checkSuperAdmin", nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// --- clinic administration ---

func (c *Client) Clinics(ctx context.Context) ([]models.Clinic, error) {
	var resp struct {
		Clinics []models.Clinic `json:"clinics"`
	}
	err := c.do(ctx, http.MethodGet, "/api/clientAdmin/clinics", nil, &resp)
	return resp.Clinics, err
}

func (c *Client) AddClinic(ctx context.Context, in services.ClinicInput) (models.Clinic, error) {
	var resp struct {
		Clinic models.Clinic `json:"clinic"`
	}
	err := c.do(ctx, http.MethodPost, "/api/clientAdmin/addClinic", in, &resp)
	return resp.Clinic, err
}

func (c *Client) Doctors(ctx context.Context) ([]models.Doctor, error) {
	var resp struct {
		Doctors []models.Doctor `json:"doctors"`
	}
	err := c.do(ctx, http.MethodGet, "/api/clientAdmin/doctors", nil, &resp)
	return resp.Doctors, err
}

func (c *Client) AddDoctor(ctx context.Context, in services.DoctorInput) (models.Doctor, error) {
	var resp struct {
		Doctor models.Doctor `json:"doctor"`
	}
	err := c.do(ctx, http.MethodPost, "/api/clientAdmin/addDoctor", in, &resp)
	return resp.Doctor, err
}

// --- doctor ---

func (c *Client) Patients(ctx context.Context) ([]models.Patient, error) {
	var resp struct {
		Patients []models.Patient `json:"patients"`
	}
	err := c.do(ctx, http.MethodGet, "/api/doctor/patients", nil, &resp)
	return resp.Patients, err
}

func (c *Client) AddPatient(ctx context.Context, in services.PatientInput) (models.Patient, error) {
	var resp struct {
		Patient models.Patient `json:"patient"`
	}
	err := c.do(ctx, http.MethodPost, "/api/doctor/addPatient", in, &resp)
	return resp.Patient, err
}

func (c *Client) UpdatePatient(ctx context.Context, id string, patch services.PatientPatch) (models.Patient, error) {
	var resp struct {
		Patient models.Patient `json:"patient"`
	}
	err := c.do(ctx, http.MethodPut, "/api/doctor/patients/"+url.PathEscape(id), patch, &resp)
	return resp.Patient, err
}

func (c *Client) Appointments(ctx context.Context, q services.AppointmentQuery) ([]models.Appointment, error) {
	v := url.Values{}
	for k, s := range map[string]string{"date": q.Date, "status": q.Status, "patientId": q.PatientID} {
		if s != "" {
			v.Set(k, s)
		}
	}
	path := "/api/doctor/appointments/fetchAppointments"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var resp struct {
		Appointments []models.Appointment `json:"appointments"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp.Appointments, err
}

func (c *Client) AddAppointment(ctx context.Context, in services.AppointmentInput) (models.Appointment, error) {
	var resp struct {
		Appointment models.Appointment `json:"appointment"`
	}
	err := c.do(ctx, http.MethodPost, "/api/doctor/appointments/add", in, &resp)
	return resp.Appointment, err
}

func (c *Client) UpdateAppointment(ctx context.Context, id string, patch services.AppointmentPatch) (models.Appointment, error) {
	var resp struct {
		Appointment models.Appointment `json:"appointment"`
	}
	err := c.do(ctx, http.MethodPut, "/api/doctor/appointments/update/"+url.PathEscape(id), patch, &resp)
	return resp.Appointment, err
}

// DeleteAppointment returns the id the server reports as deleted.
func (c *Client) DeleteAppointment(ctx context.Context, id string) (string, error) {
	var resp struct {
		AppointmentID string `json:"appointmentId"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/doctor/appointments/delete/"+url.PathEscape(id), nil, &resp)
	return resp.AppointmentID, err
}

func (c *Client) Billings(ctx context.Context) ([]models.Billing, error) {
	var resp struct {
		Billings []models.Billing `json:"billings"`
	}
	err := c.do(ctx, http.MethodGet, "/api/doctor/billing/getAll", nil, &resp)
	return resp.Billings, err
}

func (c *Client) AddBilling(ctx context.Context, in services.BillingInput) (models.Billing, error) {
	var resp struct {
		Billing models.Billing `json:"billing"`
	}
	err := c.do(ctx, http.MethodPost, "/api/doctor/billing/add", in, &resp)
	return resp.Billing, err
}

func (c *Client) UpdateBilling(ctx context.Context, id string, patch services.BillingPatch) (models.Billing, error) {
	var resp struct {
		Billing models.Billing `json:"billing"`
	}
	err := c.do(ctx, http.MethodPatch, "/api/doctor/billing/update/"+url.PathEscape(id), patch, &resp)
	return resp.Billing, err
}

// --- any role ---

func (c *Client) Availability(ctx context.Context, doctorID, date string) (*services.Availability, error) {
	v := url.Values{"doctorId": {doctorID}, "date": {date}}
	var av services.Availability
	if err := c.do(ctx, http.MethodGet, "/api/patient/appointments/availability?"+v.Encode(), nil, &av); err != nil {
		return nil, err
	}
	return &av, nil
}

// do sends body as JSON to baseURL+path and decodes a 2xx answer into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	} else if !strings.HasPrefix(path, "/api/auth/") {
		return ErrNotAuthenticated
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			apiErr.Message, apiErr.Field = e.Error, e.Field
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
