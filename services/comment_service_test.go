package services

import (
	"testing"

	"pcard.link/models"
)

func comment(id uint, parentID *uint) *models.Comment {
	c := &models.Comment{CardID: 1, UserID: 1, Username: "u", Nickname: "n", Content: "c", ParentID: parentID}
	c.ID = id
	return c
}

func ptr(v uint) *uint { return &v }

func TestBuildCommentTree(t *testing.T) {
	flat := []*models.Comment{
		comment(1, nil),
		comment(2, nil),
		comment(3, ptr(1)),
		comment(4, ptr(1)),
		comment(5, ptr(2)),
	}

	roots := BuildCommentTree(flat)

	if len(roots) != 2 {
		t.Fatalf("kök yorum sayısı = %d, beklenen 2", len(roots))
	}
	if roots[0].ID != 1 || roots[1].ID != 2 {
		t.Errorf("kök sıralaması bozuk: %d, %d", roots[0].ID, roots[1].ID)
	}
	if len(roots[0].Replies) != 2 {
		t.Fatalf("ilk kökün yanıt sayısı = %d, beklenen 2", len(roots[0].Replies))
	}
	if roots[0].Replies[0].ID != 3 || roots[0].Replies[1].ID != 4 {
		t.Errorf("yanıt sıralaması korunmadı")
	}
	if len(roots[1].Replies) != 1 || roots[1].Replies[0].ID != 5 {
		t.Errorf("ikinci kökün yanıtları hatalı")
	}
}

func TestBuildCommentTreeDropsOrphans(t *testing.T) {
	flat := []*models.Comment{
		comment(1, nil),
		comment(2, ptr(99)), // üst yorumu silinmiş
		comment(3, ptr(1)),
	}

	roots := BuildCommentTree(flat)

	if len(roots) != 1 {
		t.Fatalf("kök yorum sayısı = %d, beklenen 1", len(roots))
	}
	if len(roots[0].Replies) != 1 || roots[0].Replies[0].ID != 3 {
		t.Errorf("geçerli yanıt kaybedildi")
	}
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	if roots := BuildCommentTree(nil); len(roots) != 0 {
		t.Errorf("boş girdi için %d kök döndü", len(roots))
	}
}

func TestBuildCommentTreeIgnoresDeepNesting(t *testing.T) {
	// Yanıtın yanıtı düzleştirilerek saklanır; yine de bozuk veri
	// gelirse (parent'ın da parent'ı varsa) kayıt atlanmalı.
	flat := []*models.Comment{
		comment(1, nil),
		comment(2, ptr(1)),
		comment(3, ptr(2)),
	}

	roots := BuildCommentTree(flat)

	if len(roots) != 1 {
		t.Fatalf("kök yorum sayısı = %d, beklenen 1", len(roots))
	}
	if len(roots[0].Replies) != 1 {
		t.Errorf("ikinci seviyenin altı düzleştirilmeden kabul edildi")
	}
}
