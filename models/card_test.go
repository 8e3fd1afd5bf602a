package models

import "testing"

func TestNormalizedVisibility(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{VisibilityPublic, VisibilityPublic},
		{VisibilityLinkOnly, VisibilityLinkOnly},
		{VisibilityPrivate, VisibilityPrivate},
		{"", VisibilityPublic},
		{"SECRET", VisibilityPublic}, // bilinmeyen değerler PUBLIC sayılır
	}
	for _, tt := range tests {
		c := Card{Visibility: tt.in}
		if got := c.NormalizedVisibility(); got != tt.want {
			t.Errorf("NormalizedVisibility(%q) = %q, beklenen %q", tt.in, got, tt.want)
		}
	}
}

func TestEnsureShareArtifactsGeneratesLazily(t *testing.T) {
	tokenFn := func() string { return "token-1" }
	codeFn := func() string { return "code-1" }

	c := Card{Visibility: VisibilityLinkOnly}
	if !c.EnsureShareArtifacts(tokenFn, codeFn) {
		t.Fatal("yeni short code üretilmeliydi")
	}
	if c.ShareToken != "token-1" || c.ShortCode != "code-1" {
		t.Errorf("alanlar üretilmedi: token=%q code=%q", c.ShareToken, c.ShortCode)
	}
}

func TestEnsureShareArtifactsIdempotent(t *testing.T) {
	calls := 0
	gen := func() string { calls++; return "x" }

	c := Card{Visibility: VisibilityPublic, ShareToken: "keep-token", ShortCode: "keepcode"}
	if c.EnsureShareArtifacts(gen, gen) {
		t.Error("mevcut değerler varken üretim yapılmamalı")
	}
	if calls != 0 {
		t.Errorf("üretici fonksiyonlar %d kez çağrıldı", calls)
	}
	if c.ShareToken != "keep-token" || c.ShortCode != "keepcode" {
		t.Error("mevcut değerler ezildi")
	}
}

func TestEnsureShareArtifactsPrivateSkipsGeneration(t *testing.T) {
	gen := func() string { return "x" }

	c := Card{Visibility: VisibilityPrivate}
	if c.EnsureShareArtifacts(gen, gen) {
		t.Error("PRIVATE kart için short code üretilmemeli")
	}
	if c.ShareToken != "" || c.ShortCode != "" {
		t.Error("PRIVATE kart için paylaşım alanları dolduruldu")
	}
}

func TestEnsureShareArtifactsPublicSkipsToken(t *testing.T) {
	gen := func() string { return "x" }

	c := Card{Visibility: VisibilityPublic}
	c.EnsureShareArtifacts(gen, gen)
	if c.ShareToken != "" {
		t.Error("PUBLIC kart için share token üretilmemeli")
	}
	if c.ShortCode == "" {
		t.Error("PUBLIC kart için short code üretilmeliydi")
	}
}

func TestSnsLinksRoundTrip(t *testing.T) {
	c := Card{}
	if err := c.SetSnsLinks([]SnsLink{{Name: "twitter", Value: "https://x.com/a"}}); err != nil {
		t.Fatalf("SetSnsLinks hata verdi: %v", err)
	}
	links := c.SnsLinks()
	if len(links) != 1 || links[0].Name != "twitter" {
		t.Errorf("SNS bağlantıları korunmadı: %+v", links)
	}

	c.CustomSNS = "bozuk json"
	if got := c.SnsLinks(); got != nil {
		t.Errorf("bozuk JSON için nil beklenirdi, %+v döndü", got)
	}
}
