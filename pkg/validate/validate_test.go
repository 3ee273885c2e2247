package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/charvi/pkg/validate"
)

type productInput struct {
	Name     string  `json:"name"     validate:"required,max=255"`
	Price    string  `json:"price"    validate:"required,decimal"`
	Image    string  `json:"image"    validate:"required,url"`
	Stock    *int    `json:"stock"    validate:"nullable,integer,gte=0"`
	Rating   *string `json:"rating"   validate:"nullable,decimal"`
	Featured *bool   `json:"featured" validate:"nullable,boolean"`
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:   "Phone",
		Price:  "499.99",
		Image:  "https://img.example.com/p.jpg",
		Stock:  intPtr(3),
		Rating: strPtr("4.5"),
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["price"]; !ok {
		t.Error("expected price to be required")
	}
}

func TestDecimalRule(t *testing.T) {
	type in struct {
		Price string `json:"price" validate:"required,decimal"`
	}
	for _, bad := range []string{"abc", "-1.00", "1.2.3", "£4.99"} {
		if errs := validate.Struct(in{Price: bad}); !validate.HasErrors(errs) {
			t.Errorf("expected %q to fail decimal", bad)
		}
	}
	for _, good := range []string{"0", "499.99", "4.5"} {
		if errs := validate.Struct(in{Price: good}); validate.HasErrors(errs) {
			t.Errorf("expected %q to pass decimal, got: %v", good, errs)
		}
	}
}

func TestNullablePointerSkipsRules(t *testing.T) {
	// A nil pointer is "absent" and skips the remaining rules, which is
	// what makes patch structs with all-optional fields work.
	errs := validate.Struct(productInput{
		Name:  "Phone",
		Price: "499.99",
		Image: "https://img.example.com/p.jpg",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected nil optional fields to pass: %v", errs)
	}

	// A present pointer is validated.
	errs = validate.Struct(productInput{
		Name:   "Phone",
		Price:  "499.99",
		Image:  "https://img.example.com/p.jpg",
		Rating: strPtr("not-a-decimal"),
	})
	if _, ok := errs["rating"]; !ok {
		t.Error("expected present rating pointer to be validated")
	}
}

func TestGteOnPointerInt(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:  "Phone",
		Price: "499.99",
		Image: "https://img.example.com/p.jpg",
		Stock: intPtr(-2),
	})
	if _, ok := errs["stock"]; !ok {
		t.Error("expected negative stock to fail gte=0")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); !validate.HasErrors(errs) {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestURLRule(t *testing.T) {
	type in struct {
		Site string `json:"site" validate:"required,url"`
	}
	if errs := validate.Struct(in{Site: "https://charvi.dev"}); validate.HasErrors(errs) {
		t.Errorf("expected valid URL to pass: %v", errs)
	}
	if errs := validate.Struct(in{Site: "not-a-url"}); !validate.HasErrors(errs) {
		t.Error("expected invalid URL to fail")
	}
}

func TestInRuleKeepsParamList(t *testing.T) {
	type in struct {
		Method string `json:"paymentMethod" validate:"required,in=cod,online"`
	}
	if errs := validate.Struct(in{Method: "card"}); !validate.HasErrors(errs) {
		t.Error("expected invalid payment method to fail")
	}
	if errs := validate.Struct(in{Method: "cod"}); validate.HasErrors(errs) {
		t.Errorf("expected cod to pass: %v", errs)
	}
	if errs := validate.Struct(in{Method: "online"}); validate.HasErrors(errs) {
		t.Errorf("expected online to pass: %v", errs)
	}
}

func TestMinMaxStringLength(t *testing.T) {
	type in struct {
		Phone string `json:"phone" validate:"required,min=6,max=50"`
	}
	if errs := validate.Struct(in{Phone: "123"}); !validate.HasErrors(errs) {
		t.Error("expected short phone to fail min=6")
	}
	if errs := validate.Struct(in{Phone: "1234567890"}); validate.HasErrors(errs) {
		t.Errorf("expected valid phone to pass: %v", errs)
	}
}
