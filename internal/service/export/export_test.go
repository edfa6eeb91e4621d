package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsai/admin-api/internal/model"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestArticlesCSV(t *testing.T) {
	a := &model.Article{Title: "AI news", Status: model.ArticleStatusPublished}
	a.ID = uuid.New()

	data, err := Articles([]*model.Article{a}, FormatCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "title", records[0][1])
	assert.Equal(t, "AI news", records[1][1])
	assert.Equal(t, "published", records[1][2])
}

func TestUsersExportNeverLeaksPasswordHash(t *testing.T) {
	u := &model.User{Email: "a@b.c", Name: "A", PasswordHash: "$2a$12$secret"}
	u.ID = uuid.New()

	data, err := Users([]*model.User{u}, FormatJSON)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	data, err = Users([]*model.User{u}, FormatCSV)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}

func TestArticlesJSONRoundTrips(t *testing.T) {
	a := &model.Article{Title: "AI news", Status: model.ArticleStatusDraft}
	a.ID = uuid.New()

	data, err := Articles([]*model.Article{a}, FormatJSON)
	require.NoError(t, err)

	var out []*model.Article
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, a.Title, out[0].Title)
}
