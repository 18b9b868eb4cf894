// Package gateway exposes one typed wrapper per portal resource. Every
// failure is classified, logged once at Warn and returned next to the zero
// value of the call: an empty slice, a nil record or false.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/intranet-portal-client/internal/attachment"
	"github.com/noah-isme/intranet-portal-client/internal/client"
	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
)

// Deps are shared by every gateway.
type Deps struct {
	API         *client.APIClient
	Validate    *validator.Validate
	Attachments *attachment.Cache
	Logger      *zap.Logger
}

// NewValidator returns a validator that reports json field names and
// enforces required on struct-typed fields such as timestamps.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

type base struct {
	api         *client.APIClient
	validate    *validator.Validate
	attachments *attachment.Cache
	logger      *zap.Logger
	resource    string
}

func newBase(resource string, deps Deps) base {
	if deps.Validate == nil {
		deps.Validate = NewValidator()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Attachments == nil {
		deps.Attachments = attachment.NewCache(nil, 0, nil, deps.Logger)
	}
	return base{
		api:         deps.API,
		validate:    deps.Validate,
		attachments: deps.Attachments,
		logger:      deps.Logger.With(zap.String("gateway", resource)),
		resource:    resource,
	}
}

// check validates payload before anything is sent.
func (b base) check(op string, payload interface{}) error {
	err := b.validate.Struct(payload)
	if err == nil {
		return nil
	}
	appErr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, describeValidation(err))
	b.warn(op, "", appErr)
	return appErr
}

func (b base) checkID(op, id string) error {
	if strings.TrimSpace(id) != "" {
		return nil
	}
	appErr := appErrors.Clone(appErrors.ErrValidation, "id is required")
	b.warn(op, "", appErr)
	return appErr
}

func (b base) warn(op, endpoint string, err error) {
	appErr := appErrors.FromError(err)
	b.logger.Warn("gateway call failed",
		zap.String("op", op),
		zap.String("endpoint", endpoint),
		zap.String("code", appErr.Code),
		zap.Int("status", appErr.Status),
		zap.Error(err),
	)
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid payload"
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func list[T any](ctx context.Context, b base, op, endpoint string) ([]T, error) {
	out, err := client.Call[[]T](ctx, b.api, http.MethodGet, endpoint, nil)
	if err != nil {
		b.warn(op, endpoint, err)
		return []T{}, err
	}
	if out == nil || *out == nil {
		return []T{}, nil
	}
	return *out, nil
}

func one[T any](ctx context.Context, b base, op, method, endpoint string, body interface{}) (*T, error) {
	out, err := client.Call[T](ctx, b.api, method, endpoint, body)
	if err != nil {
		b.warn(op, endpoint, err)
		return nil, err
	}
	return out, nil
}

func action(ctx context.Context, b base, op, method, endpoint string, body interface{}) (bool, error) {
	if err := client.Exec(ctx, b.api, method, endpoint, body); err != nil {
		b.warn(op, endpoint, err)
		return false, err
	}
	return true, nil
}

// fetchAttachment loads the attachment of kind/id through the cache.
func fetchAttachment(ctx context.Context, b base, kind, id string) (*models.AttachmentPayload, error) {
	op := kind + ".attachment"
	if err := b.checkID(op, id); err != nil {
		return nil, err
	}
	endpoint := path(kind+"s", id, "attachment")
	payload, err := b.attachments.Fetch(ctx, kind, id, func(ctx context.Context) (*models.AttachmentPayload, error) {
		return client.Call[models.AttachmentPayload](ctx, b.api, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		b.warn(op, endpoint, err)
		return nil, err
	}
	return payload, nil
}

// path joins escaped segments under a leading slash.
func path(segments ...string) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	return sb.String()
}

func withQuery(endpoint string, q url.Values) string {
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}
