//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	pacttest "github.com/Apurer/repairshop-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	Data       T      `json:"data"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	IsSuccess  bool   `json:"isSuccess"`
}

type customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type notification struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status  int
	message string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.message, e.status)
}

const timestampPattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z$`

var jsonContentType = matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

func envelopeMatcher(status int, data any) matchers.Map {
	body := matchers.Map{
		"statusCode": matchers.Like(status),
		"message":    matchers.Like("ok"),
		"isSuccess":  status >= 200 && status <= 299,
	}
	if data != nil {
		body["data"] = data
	}
	return body
}

func TestFrontDeskCustomerContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	request := pacttest.ExampleCustomerPayload()
	customerMatcher := matchers.Map{
		"id":    matchers.Like(pacttest.ExistingCustomerID),
		"name":  matchers.Like(request["name"]),
		"phone": matchers.Like(request["phone"]),
		"address": matchers.Map{
			"city":  matchers.Like(request["city"]),
			"state": matchers.Term("SP", "^[A-Z]{2}$"),
		},
	}

	pact.AddInteraction().
		Given(pacttest.StateCustomersBaseline).
		UponReceiving("a request to register a customer").
		WithRequest(http.MethodPost, "/v1/customers", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(request)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(envelopeMatcher(http.StatusOK, customerMatcher))
		})

	pact.AddInteraction().
		Given(pacttest.StateCustomerExists).
		UponReceiving("a request to fetch an existing customer").
		WithRequest(http.MethodGet, fmt.Sprintf("/v1/customers/%d", pacttest.ExistingCustomerID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(envelopeMatcher(http.StatusOK, customerMatcher))
		})

	pact.AddInteraction().
		Given(pacttest.StateCustomerMissing).
		UponReceiving("a request for a missing customer").
		WithRequest(http.MethodGet, fmt.Sprintf("/v1/customers/%d", pacttest.MissingCustomerID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(envelopeMatcher(http.StatusNotFound, nil))
		})

	pact.AddInteraction().
		Given(pacttest.StateCustomersBaseline).
		UponReceiving("a request with a malformed customer id").
		WithRequest(http.MethodGet, "/v1/customers/not-a-number").
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/bad-request"),
				"title":  matchers.S("Bad Request"),
				"status": matchers.Like(http.StatusBadRequest),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newFrontDeskClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var created envelope[customer]
		if err := client.do(ctx, http.MethodPost, "/v1/customers", request, &created); err != nil {
			return fmt.Errorf("register customer: %w", err)
		}
		if created.Data.ID == 0 {
			return fmt.Errorf("expected created customer ID to be set")
		}

		var fetched envelope[customer]
		if err := client.do(ctx, http.MethodGet, fmt.Sprintf("/v1/customers/%d", pacttest.ExistingCustomerID), nil, &fetched); err != nil {
			return fmt.Errorf("get customer: %w", err)
		}
		if fetched.Data.ID != pacttest.ExistingCustomerID {
			return fmt.Errorf("expected customer id %d, got %+v", pacttest.ExistingCustomerID, fetched.Data)
		}

		err := client.do(ctx, http.MethodGet, fmt.Sprintf("/v1/customers/%d", pacttest.MissingCustomerID), nil, nil)
		if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404 for customer %d, got %v", pacttest.MissingCustomerID, err)
		}

		err = client.do(ctx, http.MethodGet, "/v1/customers/not-a-number", nil, nil)
		if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusBadRequest {
			return fmt.Errorf("expected 400 for malformed id, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestFrontDeskNotificationContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	notificationMatcher := matchers.Map{
		"id":        matchers.Like(1),
		"title":     matchers.Like(pacttest.ExampleNotificationTitle),
		"message":   matchers.Like(pacttest.ExampleNotificationMessage),
		"read":      false,
		"createdAt": matchers.Regex("2026-10-16T09:30:00Z", timestampPattern),
	}
	payload := map[string]any{
		"title":   pacttest.ExampleNotificationTitle,
		"message": pacttest.ExampleNotificationMessage,
	}

	pact.AddInteraction().
		Given(pacttest.StateNotificationsBase).
		UponReceiving("a request to create a notification").
		WithRequest(http.MethodPost, "/v1/notifications", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(payload)
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(envelopeMatcher(http.StatusCreated, notificationMatcher))
		})

	pact.AddInteraction().
		Given(pacttest.StateUnreadExists).
		UponReceiving("a request for unread notifications").
		WithRequest(http.MethodGet, "/v1/notifications/unread").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(envelopeMatcher(http.StatusOK, matchers.EachLike(notificationMatcher, 1)))
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newFrontDeskClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var created envelope[notification]
		if err := client.do(ctx, http.MethodPost, "/v1/notifications", payload, &created); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		if created.Data.ID == 0 || created.Data.Read {
			return fmt.Errorf("unexpected notification %+v", created.Data)
		}

		var unread envelope[[]notification]
		if err := client.do(ctx, http.MethodGet, "/v1/notifications/unread", nil, &unread); err != nil {
			return fmt.Errorf("list unread: %w", err)
		}
		if len(unread.Data) == 0 {
			return fmt.Errorf("expected at least one unread notification")
		}
		return nil
	})
	require.NoError(t, err)
}

type frontDeskClient struct {
	baseURL    string
	httpClient *http.Client
}

func newFrontDeskClient(config pactconsumer.MockServerConfig) *frontDeskClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &frontDeskClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *frontDeskClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// decodeAPIError understands both the envelope and problem+json failure shapes.
func decodeAPIError(res *http.Response) error {
	if strings.HasPrefix(res.Header.Get("Content-Type"), "application/problem+json") {
		var problem problemDetail
		_ = json.NewDecoder(res.Body).Decode(&problem)
		return apiError{status: res.StatusCode, message: problem.Title + ": " + problem.Detail}
	}
	var env envelope[json.RawMessage]
	_ = json.NewDecoder(res.Body).Decode(&env)
	return apiError{status: res.StatusCode, message: env.Message}
}
