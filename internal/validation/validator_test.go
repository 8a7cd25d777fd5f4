package validation

import (
	"errors"
	"testing"
)

type signup struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=150,username"`
	Time     int    `json:"cooking_time" validate:"gte=1"`
}

func TestStruct_OK(t *testing.T) {
	if err := Struct(signup{Email: "a@b.ru", Username: "cook.1+x", Time: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_FieldErrorsUseJSONNames(t *testing.T) {
	err := Struct(signup{Email: "nope", Username: "bad name", Time: 0})
	var fe Errors
	if !errors.As(err, &fe) {
		t.Fatalf("err = %T %v, want Errors", err, err)
	}
	for _, field := range []string{"email", "username", "cooking_time"} {
		if len(fe[field]) == 0 {
			t.Errorf("no error for %q: %v", field, fe)
		}
	}
	if fe["username"][0] != "Допустимы только буквы, цифры и символы @/./+/-/_." {
		t.Errorf("username message = %q", fe["username"][0])
	}
}

func TestStruct_Required(t *testing.T) {
	err := Struct(signup{Time: 1})
	var fe Errors
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v", err)
	}
	if fe["email"][0] != "Обязательное поле." {
		t.Errorf("email = %v", fe["email"])
	}
}
