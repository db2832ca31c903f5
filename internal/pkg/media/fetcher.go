// Package media downloads Telegram files to disk. Files are fetched to
// a temporary path first, the real container format is sniffed from the
// bytes, and the file is renamed into place with the detected extension
// (Telegram file paths are not trustworthy about formats).
package media

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/iisyw/TeleGrabber/internal/pkg/album/domain"
)

type TelegramFetcher struct {
	api    *tgbotapi.BotAPI
	client *http.Client
}

func NewTelegramFetcher(api *tgbotapi.BotAPI, client *http.Client) *TelegramFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &TelegramFetcher{api: api, client: client}
}

// Fetch downloads one media item into dir and returns the final file
// name (not the full path).
func (f *TelegramFetcher) Fetch(item domain.MediaItem, dir string) (string, error) {
	file, err := f.api.GetFile(tgbotapi.FileConfig{FileID: item.FileID})
	if err != nil {
		return "", fmt.Errorf("get file %s: %w", item.FileID, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	tmp := filepath.Join(dir, uuid.NewString()+".part")
	if err := f.download(file.Link(f.api.Token), tmp); err != nil {
		return "", err
	}

	ext := detectExtension(tmp, item.Kind)
	name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), item.FileUniqueID, ext)
	final := filepath.Join(dir, name)
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", tmp, err)
	}
	return name, nil
}

func (f *TelegramFetcher) download(url, dest string) error {
	resp, err := f.client.Get(url)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: unexpected status %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("write temp file: %w", err)
	}
	return out.Close()
}

func detectExtension(path string, kind domain.MediaKind) string {
	if mt, err := mimetype.DetectFile(path); err == nil && mt.Extension() != "" {
		return mt.Extension()
	}
	switch kind {
	case domain.KindVideo, domain.KindAnimation:
		return ".mp4"
	default:
		return ".jpg"
	}
}
