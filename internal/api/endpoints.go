package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strconv"
	"strings"

	"foodapp/internal/models"
	"foodapp/internal/validation"
)

type SignupResult struct {
	User    *models.User
	Message string
}

type LoginResult struct {
	User    models.User
	Token   string
	Message string
}

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*SignupResult, error) {
	var data models.AuthResponse
	msg, err := c.doRequest(ctx, http.MethodPost, EndpointSignup, req, &data)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error registering user")
		return nil, fmt.Errorf("registering user: %w", err)
	}
	return &SignupResult{User: data.User, Message: msg}, nil
}

// Login exchanges credentials for a user and token. It does not touch the
// session; callers hand the result to session.Store.Login.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	var data models.AuthResponse
	msg, err := c.doRequest(ctx, http.MethodPost, EndpointLogin, req, &data)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error logging in user")
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if data.User == nil || data.Token == "" {
		return nil, ErrInvalidLoginResponse
	}
	return &LoginResult{User: *data.User, Token: data.Token, Message: msg}, nil
}

// Logout satisfies session.Remote.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodPost, EndpointLogout, nil, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error logging out user")
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// AddFoodItem validates the form and uploads it with the dish photo as a
// multipart request.
func (c *Client) AddFoodItem(ctx context.Context, form models.FoodItemForm) (*models.FoodItem, error) {
	if _, err := validation.ValidateFoodItem(form); err != nil {
		return nil, err
	}

	body, contentType, err := encodeFoodItem(form)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, EndpointAddFoodItem, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var item models.FoodItem
	if _, err := c.send(req, &item); err != nil {
		c.logger.Error().Err(err).Msg("Error adding food item")
		return nil, fmt.Errorf("adding food item: %w", err)
	}
	return &item, nil
}

// Menu lists the calling seller's items.
func (c *Client) Menu(ctx context.Context) ([]models.FoodItem, error) {
	var items []models.FoodItem
	if _, err := c.doRequest(ctx, http.MethodGet, EndpointMenu, nil, &items); err != nil {
		return nil, fmt.Errorf("listing menu: %w", err)
	}
	return items, nil
}

// Profile fetches the caller's current user record.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var data models.AuthResponse
	if _, err := c.doRequest(ctx, http.MethodGet, EndpointProfile, nil, &data); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	if data.User == nil {
		return nil, ErrMissingUser
	}
	return data.User, nil
}

// UpdateProfile sends a partial profile edit and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	var data models.AuthResponse
	if _, err := c.doRequest(ctx, http.MethodPut, EndpointProfile, patch, &data); err != nil {
		c.logger.Error().Err(err).Msg("Error updating profile")
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	if data.User == nil {
		return nil, ErrMissingUser
	}
	return data.User, nil
}

func encodeFoodItem(form models.FoodItemForm) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", form.Name},
		{"price", strings.TrimSpace(form.Price)},
		{"category", form.Category},
		{"description", form.Description},
		{"pickUp", strconv.FormatBool(form.PickUp)},
		{"delivery", strconv.FormatBool(form.Delivery)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("writing %s field: %w", f.name, err)
		}
	}
	for _, id := range form.SelectedIngredients {
		if err := w.WriteField("selectedIngredients[]", id); err != nil {
			return nil, "", fmt.Errorf("writing ingredient field: %w", err)
		}
	}

	if err := writeImage(w, form.Image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeImage(w *multipart.Writer, uri string) error {
	f, err := os.Open(strings.TrimPrefix(uri, "file://"))
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	name, contentType := validation.ImagePart(uri)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, name))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating image part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copying image: %w", err)
	}
	return nil
}
