// Package validation holds the form rules shared by the client screens and
// the development backend.
package validation

import (
	"net/mail"
	"path"
	"sort"
	"strconv"
	"strings"

	"foodapp/internal/models"
)

const MinPasswordLength = 6

// Errors maps a form field to its first failing rule.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

func checkEmail(errs Errors, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		errs["email"] = "Email is required"
	case !ValidEmail(email):
		errs["email"] = "Invalid email"
	}
}

func ValidateLogin(req models.LoginRequest) error {
	errs := Errors{}
	checkEmail(errs, req.Email)
	if req.Password == "" {
		errs["password"] = "Password is required"
	}
	return errs.orNil()
}

// ValidateProfile checks a profile edit. Empty fields mean unchanged; a role
// change is never allowed.
func ValidateProfile(p models.UserPatch) error {
	errs := Errors{}
	if p.Email != "" && !ValidEmail(p.Email) {
		errs["email"] = "Invalid email"
	}
	if p.Role != "" {
		errs["role"] = "Role cannot be changed"
	}
	if p.Email == "" && p.Name == "" && p.Role == "" {
		errs["name"] = "Nothing to update"
	}
	return errs.orNil()
}

// ValidateSignup checks the signup form. An empty role becomes CUSTOMER.
func ValidateSignup(req *models.SignupRequest) error {
	errs := Errors{}
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = "Name is required"
	}
	checkEmail(errs, req.Email)
	switch {
	case req.Password == "":
		errs["password"] = "Password is required"
	case len(req.Password) < MinPasswordLength:
		errs["password"] = "Password must be at least 6 characters"
	}
	switch {
	case req.ConfirmPassword == "":
		errs["confirmPassword"] = "Confirm password is required"
	case req.ConfirmPassword != req.Password:
		errs["confirmPassword"] = "Passwords must match"
	}

	if req.Role == "" {
		req.Role = string(models.RoleCustomer)
	}
	if !models.UserRole(req.Role).Valid() {
		errs["role"] = "Role must be CUSTOMER or SELLER"
	}
	return errs.orNil()
}

// ValidateFoodItem checks the add-item form and returns the parsed price.
func ValidateFoodItem(form models.FoodItemForm) (float64, error) {
	errs := Errors{}
	if strings.TrimSpace(form.Name) == "" {
		errs["name"] = "Item name is required"
	}

	var price float64
	if strings.TrimSpace(form.Price) == "" {
		errs["price"] = "Price is required"
	} else if p, err := strconv.ParseFloat(strings.TrimSpace(form.Price), 64); err != nil {
		errs["price"] = "Price must be a number"
	} else if p <= 0 {
		errs["price"] = "Price must be positive"
	} else {
		price = p
	}

	switch {
	case form.Category == "":
		errs["category"] = "Category is required"
	case !ValidCategory(form.Category):
		errs["category"] = "Unknown category"
	}
	if strings.TrimSpace(form.Description) == "" {
		errs["description"] = "Description is required"
	}
	if form.Image == "" {
		errs["image"] = "Dish image is required"
	}
	return price, errs.orNil()
}

func ValidCategory(category string) bool {
	for _, c := range models.FoodCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ImagePart derives the upload file name and content type from a photo URI,
// e.g. "file:///tmp/IMG_1.jpg" gives "photo.jpg" and "image/jpeg".
func ImagePart(uri string) (name, contentType string) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(uri)), ".")
	if ext == "" {
		ext = "jpg"
	}
	kind := ext
	if kind == "jpg" {
		kind = "jpeg"
	}
	return "photo." + ext, "image/" + kind
}
