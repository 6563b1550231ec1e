package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ArticleForm is the user-editable part of an article.
type ArticleForm struct {
	Title   string `form:"title" validate:"required,max=150"`
	Content string `form:"content" validate:"required,max=20000"`
}

// CommentForm is the user-editable part of a comment.
type CommentForm struct {
	Content string `form:"content"`
}

// Validator applies the form rules for articles and comments.
// It is safe for concurrent use.
type Validator struct {
	validate         *validator.Validate
	commentMaxLength int
}

// NewValidator creates a Validator. A commentMaxLength <= 0 selects
// DefaultCommentMaxLength.
func NewValidator(commentMaxLength int) *Validator {
	if commentMaxLength <= 0 {
		commentMaxLength = DefaultCommentMaxLength
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v, commentMaxLength: commentMaxLength}
}

// CommentMaxLength returns the configured comment limit.
func (v *Validator) CommentMaxLength() int {
	return v.commentMaxLength
}

var articleMessages = map[string]map[string]string{
	"title": {
		"required": "Please provide a title",
		"max":      fmt.Sprintf("The title must contain at most %d characters", TitleMaxLength),
	},
	"content": {
		"required": "Please provide some content",
		"max":      fmt.Sprintf("The content must contain at most %d characters", ContentMaxLength),
	},
}

// ValidateArticle checks an article form. Every violated field is reported,
// one message per field. Lengths are counted in characters, not bytes.
func (v *Validator) ValidateArticle(form ArticleForm) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate article: %w", err)
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := articleMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		out = append(out, &ValidationError{Field: fe.Field(), Message: msg})
	}
	return out
}

// ValidateComment checks a comment form against the configured maximum length.
func (v *Validator) ValidateComment(form CommentForm) error {
	err := v.validate.Var(form.Content, fmt.Sprintf("required,max=%d", v.commentMaxLength))
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate comment: %w", err)
	}
	msg := "Please write a comment"
	if fieldErrs[0].Tag() == "max" {
		msg = fmt.Sprintf("The comment must contain at most %d characters", v.commentMaxLength)
	}
	return ValidationErrors{{Field: "content", Message: msg}}
}

// FormError builds a form-level validation failure, such as a rejected CSRF token.
func FormError(message string) ValidationErrors {
	return ValidationErrors{{Field: FormField, Message: message}}
}
