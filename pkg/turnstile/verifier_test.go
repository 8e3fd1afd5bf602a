package turnstile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"pcard.link/configs/configslog"
)

func TestMain(m *testing.M) {
	configslog.InitLogger()
	os.Exit(m.Run())
}

func TestDisabledVerifierAllows(t *testing.T) {
	v := NewVerifier("", "")
	if v.Enabled() {
		t.Fatal("anahtarsız verifier kapalı olmalı")
	}
	if !v.Verify(context.Background(), "herhangi", "1.2.3.4") {
		t.Fatal("özellik kapalıyken Verify true dönmeli")
	}
}

func TestEmptyTokenRejectedWithoutNetworkCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	v := NewVerifier("secret", "sitekey", WithEndpoint(srv.URL))
	if v.Verify(context.Background(), "", "1.2.3.4") {
		t.Fatal("boş token reddedilmeli")
	}
	if called {
		t.Fatal("boş token için ağ çağrısı yapılmamalı")
	}
}

func TestSuccessfulVerification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("form çözümlenemedi: %v", err)
		}
		if r.PostForm.Get("secret") != "secret" || r.PostForm.Get("response") != "token123" {
			t.Errorf("beklenmeyen form verisi: %v", r.PostForm)
		}
		if r.PostForm.Get("remoteip") != "1.2.3.4" {
			t.Errorf("remoteip iletilmedi: %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	v := NewVerifier("secret", "sitekey", WithEndpoint(srv.URL))
	if !v.Verify(context.Background(), "token123", "1.2.3.4") {
		t.Fatal("başarılı yanıt true dönmeli")
	}
}

func TestFailedVerification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := NewVerifier("secret", "sitekey", WithEndpoint(srv.URL))
	if v.Verify(context.Background(), "kotu-token", "1.2.3.4") {
		t.Fatal("success=false yanıtı false dönmeli")
	}
}

func TestClientErrorStatusRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	v := NewVerifier("secret", "sitekey", WithEndpoint(srv.URL))
	if v.Verify(context.Background(), "token", "1.2.3.4") {
		t.Fatal("4xx yanıtı false dönmeli")
	}
}

func TestServerErrorFailsOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	v := NewVerifier("secret", "sitekey", WithEndpoint(srv.URL))
	if !v.Verify(context.Background(), "token", "1.2.3.4") {
		t.Fatal("5xx durumunda fail open beklenir")
	}
}

func TestTimeoutFailsOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	v := NewVerifier("secret", "sitekey",
		WithEndpoint(srv.URL),
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)
	if !v.Verify(context.Background(), "token", "1.2.3.4") {
		t.Fatal("zaman aşımında fail open beklenir")
	}
}
