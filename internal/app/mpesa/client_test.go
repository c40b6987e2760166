package mpesa

import (
	"context"
	"encoding/base64"
	"errors"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func TestFetchToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/oauth/v1/generate", r.URL.Path)
		require.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))

		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("key:secret"))
		require.Equal(t, want, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token-1","expires_in":"3599"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", "secret", 5*time.Second)

	token, err := client.FetchToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "token-1", token.AccessToken)
	require.Equal(t, models.Seconds(3599), token.ExpiresIn)
}

func TestFetchToken_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"requestId":"r-1","errorCode":"400.008.01","errorMessage":"Invalid Authentication passed"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", "wrong", 0)

	_, err := client.FetchToken(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	require.Equal(t, "400.008.01", statusErr.Gateway.ErrorCode)
	require.Contains(t, statusErr.Error(), "Invalid Authentication passed")
}

func TestFetchToken_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expires_in":"3599"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "key", "secret", 0).FetchToken(context.Background())

	require.ErrorIs(t, err, ErrEmptyToken)
}

func TestFetchToken_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "key", "secret", time.Second).FetchToken(context.Background())

	require.Error(t, err)
	var statusErr *StatusError
	require.False(t, errors.As(err, &statusErr))
}

func TestSTKPush(t *testing.T) {
	payload := &models.STKPushPayload{
		BusinessShortCode: "174379",
		Password:          "pw",
		Timestamp:         "20250101120000",
		TransactionType:   models.TransactionTypePayBillOnline,
		Amount:            150,
		PartyA:            "254712345678",
		PartyB:            "174379",
		PhoneNumber:       "254712345678",
		CallBackURL:       "https://example.com/callback",
		AccountReference:  "Coffee Kiosk",
		TransactionDesc:   "Coffee Purchase",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/mpesa/stkpush/v1/processrequest", r.URL.Path)
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var got models.STKPushPayload
		require.NoError(t, sonic.Unmarshal(body, &got))
		require.Equal(t, *payload, got)

		w.Write([]byte(`{"MerchantRequestID":"m-1","CheckoutRequestID":"abc123","ResponseCode":"0","ResponseDescription":"Success. Request accepted for processing","CustomerMessage":"Success"}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "key", "secret", 0).STKPush(context.Background(), "token-1", payload)
	require.NoError(t, err)
	require.Equal(t, "0", res.ResponseCode)
	require.Equal(t, "abc123", res.CheckoutRequestID)
	require.Equal(t, "m-1", res.MerchantRequestID)
}

func TestSTKPush_BadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorCode":"400.002.02","errorMessage":"Bad Request - Invalid PhoneNumber"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "key", "secret", 0).STKPush(context.Background(), "token-1", &models.STKPushPayload{})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	require.Equal(t, "Bad Request - Invalid PhoneNumber", statusErr.Gateway.ErrorMessage)
}

func TestSTKPush_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "key", "secret", 0).STKPush(context.Background(), "token-1", &models.STKPushPayload{})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	require.Contains(t, statusErr.Error(), "upstream down")
}
