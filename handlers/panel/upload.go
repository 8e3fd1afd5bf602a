package handlers

import (
	"errors"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"pcard.link/configs/configslog"
	"pcard.link/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

const maxUploadSize = 5 << 20 // 5MB

var (
	errUploadTooLarge = errors.New("dosya 5MB sınırını aşıyor")
	errUploadBadType  = errors.New("yalnızca JPEG, PNG, GIF veya WebP görselleri yüklenebilir")
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// saveCardImage yüklenen görseli doğrulayıp UPLOAD_DIR altına UUID isimle
// kaydeder. Uzantı yanıltıcı olabileceğinden içerik ilk 512 bayttan
// sniff edilir. Dönen değer web yolu (/uploads/...) ve görsel yönüdür.
func saveCardImage(file *multipart.FileHeader, uploadDir string) (webPath, orientation string, err error) {
	if file.Size > maxUploadSize {
		return "", "", errUploadTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return "", "", errUploadBadType
	}

	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", "", err
	}
	if !allowedImageMIMEs[http.DetectContentType(head[:n])] {
		return "", "", errUploadBadType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", "", err
	}

	orientation = detectOrientation(src)
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", "", err
	}
	name := uuid.NewString() + ext
	dstPath := filepath.Join(uploadDir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", "", err
	}

	return "/uploads/" + name, orientation, nil
}

// detectOrientation görsel boyutlarından yatay/dikey kararı verir.
// Çözülemeyen görseller yatay sayılır.
func detectOrientation(r io.Reader) string {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil || cfg.Width >= cfg.Height {
		return models.OrientationHorizontal
	}
	return models.OrientationVertical
}

// removeUploadedFile web yolundan diskteki dosyayı kaldırır. Kart
// silindiğinde artık erişilemeyen görseller bırakılmaz.
func removeUploadedFile(uploadDir, webPath string) {
	if webPath == "" || !strings.HasPrefix(webPath, "/uploads/") {
		return
	}
	name := filepath.Base(webPath)
	if err := os.Remove(filepath.Join(uploadDir, name)); err != nil && !os.IsNotExist(err) {
		configslog.Log.Warn("Görsel dosyası silinemedi", zap.String("path", webPath), zap.Error(err))
	}
}
