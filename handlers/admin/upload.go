package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"pcard.link/configs/configslog"

	"go.uber.org/zap"
)

// removeAdminUploadedFile kart silinirken görsel dosyasını da kaldırır.
func removeAdminUploadedFile(uploadDir, webPath string) {
	if webPath == "" || !strings.HasPrefix(webPath, "/uploads/") {
		return
	}
	name := filepath.Base(webPath)
	if err := os.Remove(filepath.Join(uploadDir, name)); err != nil && !os.IsNotExist(err) {
		configslog.Log.Warn("Görsel dosyası silinemedi", zap.String("path", webPath), zap.Error(err))
	}
}
