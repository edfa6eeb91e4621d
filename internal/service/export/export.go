package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/pkg/errors"
)

// Format is the requested export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates the ?format= query value
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, "":
		if s == "" {
			return FormatCSV, nil
		}
		return Format(s), nil
	default:
		return "", errors.BadRequest(fmt.Sprintf("unsupported export format %q", s), nil)
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Articles renders an article export in the given format
func Articles(articles []*model.Article, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(articles, "", "  ")
	}

	rows := [][]string{{"id", "title", "status", "featured", "breaking", "views", "likes", "published_at", "created_at"}}
	for _, a := range articles {
		rows = append(rows, []string{
			a.ID.String(),
			a.Title,
			string(a.Status),
			strconv.FormatBool(a.Featured),
			strconv.FormatBool(a.Breaking),
			strconv.Itoa(a.Views),
			strconv.Itoa(a.Likes),
			formatTime(a.PublishedAt),
			a.CreatedAt.Format(time.RFC3339),
		})
	}
	return writeCSV(rows)
}

// Categories renders a category export in the given format
func Categories(categories []*model.Category, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(categories, "", "  ")
	}

	rows := [][]string{{"id", "name", "slug", "active", "article_count", "created_at"}}
	for _, c := range categories {
		rows = append(rows, []string{
			c.ID.String(),
			c.Name,
			c.Slug,
			strconv.FormatBool(c.Active),
			strconv.Itoa(c.ArticleCount),
			c.CreatedAt.Format(time.RFC3339),
		})
	}
	return writeCSV(rows)
}

// Advertisements renders an advertisement export in the given format
func Advertisements(ads []*model.Advertisement, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(ads, "", "  ")
	}

	rows := [][]string{{"id", "name", "advertiser", "placement", "status", "spend", "impressions", "clicks", "created_at"}}
	for _, ad := range ads {
		rows = append(rows, []string{
			ad.ID.String(),
			ad.Name,
			ad.Advertiser,
			ad.Placement,
			string(ad.Status),
			strconv.FormatFloat(ad.Spend, 'f', 2, 64),
			strconv.Itoa(ad.Impressions),
			strconv.Itoa(ad.Clicks),
			ad.CreatedAt.Format(time.RFC3339),
		})
	}
	return writeCSV(rows)
}

// Users renders a user export in the given format. Password hashes and login
// state never leave the server.
func Users(users []*model.User, format Format) ([]byte, error) {
	if format == FormatJSON {
		sanitized := make([]*model.User, 0, len(users))
		for _, u := range users {
			c := *u
			c.PasswordHash = ""
			sanitized = append(sanitized, &c)
		}
		return json.MarshalIndent(sanitized, "", "  ")
	}

	rows := [][]string{{"id", "email", "name", "role", "status", "blocked", "created_at"}}
	for _, u := range users {
		rows = append(rows, []string{
			u.ID.String(),
			u.Email,
			u.Name,
			string(u.Role),
			string(u.Status),
			strconv.FormatBool(u.Blocked),
			u.CreatedAt.Format(time.RFC3339),
		})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
