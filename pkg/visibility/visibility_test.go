package visibility

import (
	"testing"

	"pcard.link/models"
)

func card(vis, token string, ownerID uint) *models.Card {
	c := &models.Card{Visibility: vis, ShareToken: token, UserID: ownerID}
	return c
}

func TestDecisionTable(t *testing.T) {
	anonymous := Requester{}
	owner := Requester{UserID: 7, Authenticated: true}
	otherUser := Requester{UserID: 9, Authenticated: true}
	admin := Requester{UserID: 3, IsAdmin: true, Authenticated: true}

	tests := []struct {
		name      string
		card      *models.Card
		token     string
		requester Requester
		want      bool
	}{
		{"public anonim", card(models.VisibilityPublic, "", 7), "", anonymous, true},
		{"public baska kullanici", card(models.VisibilityPublic, "", 7), "", otherUser, true},

		{"link_only dogru token anonim", card(models.VisibilityLinkOnly, "abc", 7), "abc", anonymous, true},
		{"link_only yanlis token anonim", card(models.VisibilityLinkOnly, "abc", 7), "wrong", anonymous, false},
		{"link_only yanlis token baska kullanici", card(models.VisibilityLinkOnly, "abc", 7), "wrong", otherUser, false},
		{"link_only tokensiz sahibi", card(models.VisibilityLinkOnly, "abc", 7), "", owner, true},
		{"link_only tokensiz admin", card(models.VisibilityLinkOnly, "abc", 7), "", admin, true},
		{"link_only tokensiz anonim", card(models.VisibilityLinkOnly, "abc", 7), "", anonymous, false},

		{"private anonim", card(models.VisibilityPrivate, "", 7), "", anonymous, false},
		{"private baska kullanici", card(models.VisibilityPrivate, "", 7), "", otherUser, false},
		{"private sahibi", card(models.VisibilityPrivate, "", 7), "", owner, true},
		{"private admin", card(models.VisibilityPrivate, "", 7), "", admin, true},

		// Görünürlük alanı olmayan eski kayıtlar PUBLIC sayılır.
		{"bilinmeyen gorunurluk anonim", card("", "", 7), "", anonymous, true},
		{"gecersiz gorunurluk anonim", card("WEIRD", "", 7), "", anonymous, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.card, tt.token, tt.requester); got != tt.want {
				t.Errorf("Allowed() = %v, beklenen %v", got, tt.want)
			}
		})
	}
}

func TestEmptyProvidedTokenNeverMatchesEmptyStoredToken(t *testing.T) {
	// ShareToken henüz üretilmemiş LINK_ONLY kart: boş token eşleşme sayılmamalı.
	c := card(models.VisibilityLinkOnly, "", 7)
	if Allowed(c, "", Requester{}) {
		t.Fatal("boş token boş shareToken ile eşleşmemeli")
	}
}

func TestRequesterFromUser(t *testing.T) {
	if r := RequesterFromUser(nil); r.Authenticated {
		t.Fatal("nil kullanıcı anonim olmalı")
	}
	u := &models.User{Role: models.RoleAdmin}
	u.ID = 5
	r := RequesterFromUser(u)
	if !r.Authenticated || !r.IsAdmin || r.UserID != 5 {
		t.Fatalf("beklenmeyen requester: %+v", r)
	}
}
