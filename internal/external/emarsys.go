package external

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"courier/internal/types"
)

// Emarsys contact system field identifiers.
// https://dev.emarsys.com/v2/personalization/contact-system-fields
const (
	emarsysFieldFirstName = "1"
	emarsysFieldLastName  = "2"
	emarsysFieldEmail     = "3"
	emarsysFieldCountry   = "14"
	emarsysFieldOptIn     = "31"
	emarsysOptInTrue      = 1
)

// wsseTimeFormat renders timestamps the way the X-WSSE Created attribute and
// the digest input expect them: ISO 8601 with a numeric zone, no colon.
const wsseTimeFormat = "2006-01-02T15:04:05-0700"

// wssePasswordDigest computes the X-WSSE password digest: the SHA-1 of
// nonce + created + secret, hex-encoded first and then base64-encoded.
// The hex intermediate is part of the scheme, not an accident.
func wssePasswordDigest(nonceHex, created, secret string) string {
	sum := sha1.Sum([]byte(nonceHex + created + secret))
	return base64.StdEncoding.EncodeToString([]byte(hex.EncodeToString(sum[:])))
}

// wsseHeader builds the full X-WSSE header value for one request.
func wsseHeader(usernameToken, secret, nonceHex string, ts time.Time) string {
	created := ts.UTC().Format(wsseTimeFormat)
	return fmt.Sprintf(
		"UsernameToken Username=%q, PasswordDigest=%q, Nonce=%q, Created=%q",
		usernameToken,
		wssePasswordDigest(nonceHex, created, secret),
		nonceHex,
		created,
	)
}

// newNonce returns a fresh random nonce as 32 hex characters.
func newNonce() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// EmarsysClientConfig holds the configuration for creating an EmarsysClient.
type EmarsysClientConfig struct {
	BaseURL       string
	UsernameToken string
	APISecretKey  types.SecretString
	Logger        *slog.Logger
}

// EmarsysClient implements ContactProvider against the Emarsys v2 API. Every
// request carries a freshly signed X-WSSE header; transport resilience comes
// from the shared BaseClient.
type EmarsysClient struct {
	base          *BaseClient
	baseURL       string
	usernameToken string
	secret        types.SecretString
	logger        *slog.Logger
	nowFn         func() time.Time
	nonceFn       func() string
}

// NewEmarsysClient creates an EmarsysClient with its own BaseClient.
func NewEmarsysClient(httpClient *http.Client, cfg EmarsysClientConfig) *EmarsysClient {
	base := NewBaseClient(
		httpClient,
		"emarsys",
		DefaultRetryPolicy(),
		"courier/1.0",
	)
	return NewEmarsysClientWithBase(base, cfg)
}

// NewEmarsysClientWithBase creates an EmarsysClient around a pre-configured
// BaseClient.
func NewEmarsysClientWithBase(base *BaseClient, cfg EmarsysClientConfig) *EmarsysClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EmarsysClient{
		base:          base,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		usernameToken: cfg.UsernameToken,
		secret:        cfg.APISecretKey,
		logger:        logger,
		nowFn:         time.Now,
		nonceFn:       newNonce,
	}
}

// emarsysResponse is the envelope every Emarsys endpoint replies with.
// replyCode 0 means success; anything else is a provider-side failure whose
// code and text are surfaced to the caller.
type emarsysResponse struct {
	ReplyCode *int64          `json:"replyCode"`
	ReplyText *string         `json:"replyText"`
	Data      json.RawMessage `json:"data"`
}

type emarsysCreateData struct {
	IDs    []int64         `json:"ids"`
	Errors json.RawMessage `json:"errors"`
}

type emarsysAddToListData struct {
	InsertedContacts *int32          `json:"inserted_contacts"`
	Errors           json.RawMessage `json:"errors"`
}

// CreateContact registers a contact keyed by email and returns the Emarsys
// contact ID.
func (c *EmarsysClient) CreateContact(ctx context.Context, payload types.CreateContact) (int64, error) {
	contact := map[string]any{
		emarsysFieldFirstName: payload.FirstName,
		emarsysFieldLastName:  payload.LastName,
		emarsysFieldEmail:     payload.Email,
		emarsysFieldOptIn:     emarsysOptInTrue,
	}
	if payload.Country != nil {
		if code, ok := emarsysCountryCode(*payload.Country); ok {
			contact[emarsysFieldCountry] = code
		}
	}

	body := map[string]any{
		"key_id":   emarsysFieldEmail,
		"contacts": []any{contact},
	}

	reply, err := c.post(ctx, "/contact", body)
	if err != nil {
		return 0, err
	}
	return extractCreatedID(reply)
}

// AddToContactList adds the contact with the given email to a contact list
// and returns the number of inserted contacts the provider reports.
func (c *EmarsysClient) AddToContactList(ctx context.Context, listID int64, email string) (int32, error) {
	body := map[string]any{
		"key_id":       emarsysFieldEmail,
		"external_ids": []string{email},
	}

	reply, err := c.post(ctx, fmt.Sprintf("/contactlist/%d/add", listID), body)
	if err != nil {
		return 0, err
	}
	return extractInsertedContacts(reply)
}

// DeleteContact removes the contact keyed by email.
func (c *EmarsysClient) DeleteContact(ctx context.Context, payload types.DeleteContact) error {
	body := map[string]any{
		emarsysFieldEmail: payload.Email,
	}

	reply, err := c.post(ctx, "/contact/delete", body)
	if err != nil {
		return err
	}
	if reply.ReplyCode == nil || *reply.ReplyCode != 0 {
		return emarsysReplyError(reply)
	}
	return nil
}

// post signs and sends one Emarsys API call, returning the decoded reply
// envelope. Non-2xx statuses that survive BaseClient's retries are mapped to
// upstream errors.
func (c *EmarsysClient) post(ctx context.Context, path string, body any) (*emarsysResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to marshal Emarsys payload",
			err,
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create Emarsys request",
			err,
		)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-WSSE", wsseHeader(c.usernameToken, c.secret.Unmask(), c.nonceFn(), c.nowFn()))

	resp, err := c.base.Do(req)
	if err != nil {
		if _, ok := err.(*types.AppError); ok {
			return nil, err
		}
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("Emarsys request failed: %v", err),
			err,
		)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			"failed to read Emarsys response body",
			err,
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("Emarsys returned status %d: %s", resp.StatusCode, string(respBody)),
			nil,
		)
	}

	var reply emarsysResponse
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			"failed to decode Emarsys response",
			err,
		)
	}
	return &reply, nil
}

// emarsysReplyError turns a non-zero reply envelope into a typed error
// carrying the provider's code and text.
func emarsysReplyError(reply *emarsysResponse) *types.AppError {
	var code int64 = -1
	if reply.ReplyCode != nil {
		code = *reply.ReplyCode
	}
	text := ""
	if reply.ReplyText != nil {
		text = *reply.ReplyText
	}
	return types.NewAppErrorWithDetails(
		types.ErrCodeEmarsysReply,
		fmt.Sprintf("Emarsys replied with code %d: %s", code, text),
		nil,
		map[string]any{"code": code, "text": text},
	)
}

// extractCreatedID pulls the single contact ID out of a create-contact reply.
func extractCreatedID(reply *emarsysResponse) (int64, error) {
	if reply.ReplyCode == nil || *reply.ReplyCode != 0 {
		return 0, emarsysReplyError(reply)
	}

	var data emarsysCreateData
	if len(reply.Data) == 0 {
		return 0, types.NewAppError(types.ErrCodeUpstreamUnavailable,
			"Emarsys create-contact reply has no data field", nil)
	}
	if err := json.Unmarshal(reply.Data, &data); err != nil {
		return 0, types.NewAppError(types.ErrCodeUpstreamUnavailable,
			"failed to decode Emarsys create-contact data", err)
	}
	if len(data.Errors) > 0 && string(data.Errors) != "null" && string(data.Errors) != "[]" && string(data.Errors) != "{}" {
		return 0, types.NewAppError(types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("Emarsys create-contact data has errors: %s", string(data.Errors)), nil)
	}
	if len(data.IDs) != 1 {
		return 0, types.NewAppError(types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("Emarsys create-contact returned %d ids, expected one", len(data.IDs)), nil)
	}
	return data.IDs[0], nil
}

// extractInsertedContacts pulls the inserted count out of an add-to-list
// reply.
func extractInsertedContacts(reply *emarsysResponse) (int32, error) {
	if reply.ReplyCode == nil || *reply.ReplyCode != 0 {
		return 0, emarsysReplyError(reply)
	}

	var data emarsysAddToListData
	if len(reply.Data) == 0 {
		return 0, types.NewAppError(types.ErrCodeUpstreamUnavailable,
			"Emarsys add-to-list reply has no data field", nil)
	}
	if err := json.Unmarshal(reply.Data, &data); err != nil {
		return 0, types.NewAppError(types.ErrCodeUpstreamUnavailable,
			"failed to decode Emarsys add-to-list data", err)
	}
	if data.InsertedContacts == nil {
		return 0, types.NewAppError(types.ErrCodeUpstreamUnavailable,
			"Emarsys add-to-list reply is missing inserted_contacts", nil)
	}
	return *data.InsertedContacts, nil
}

// Compile-time assertion that EmarsysClient satisfies ContactProvider.
var _ ContactProvider = (*EmarsysClient)(nil)
