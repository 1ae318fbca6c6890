package service

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePostPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		form       url.Values
		want       PostPayload
		wantFields []string
		wantMsg    string
	}{
		{
			name: "valid, title trimmed",
			form: url.Values{"title": {"  sample  "}, "description": {"lorem"}},
			want: PostPayload{Title: "sample", Description: "lorem"},
		},
		{
			name: "method override key is ignored",
			form: url.Values{"title": {"t"}, "description": {"d"}, "_method": {"PUT"}},
			want: PostPayload{Title: "t", Description: "d"},
		},
		{
			name:       "empty title",
			form:       url.Values{"title": {""}, "description": {"d"}},
			wantFields: []string{"title"},
			wantMsg:    "title is required",
		},
		{
			name:       "whitespace title",
			form:       url.Values{"title": {"   "}, "description": {"d"}},
			wantFields: []string{"title"},
		},
		{
			name:       "every violation is listed",
			form:       url.Values{},
			wantFields: []string{"description", "title"},
			wantMsg:    "description is required, title is required",
		},
		{
			name:       "protected field rejected",
			form:       url.Values{"title": {"t"}, "description": {"d"}, "author": {"7"}},
			wantFields: []string{"author"},
			wantMsg:    "author is not allowed",
		},
		{
			name:       "unknown field and missing field together",
			form:       url.Values{"description": {"d"}, "comment_ids": {"1"}},
			wantFields: []string{"comment_ids", "title"},
			wantMsg:    "comment_ids is not allowed, title is required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePostPayload(tt.form)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.ErrorIs(t, err, ErrInvalidRequest)
			require.Equal(t, http.StatusBadRequest, verr.Status())
			require.Len(t, verr.Fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				require.True(t, verr.Has(f), "missing violation for %q", f)
			}
			if tt.wantMsg != "" {
				require.Equal(t, tt.wantMsg, verr.Error())
			}
		})
	}
}

func TestParseCommentPayload(t *testing.T) {
	t.Parallel()

	got, err := ParseCommentPayload(url.Values{"body": {"nice post"}})
	require.NoError(t, err)
	require.Equal(t, "nice post", got.Body)

	_, err = ParseCommentPayload(url.Values{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "body is required", verr.Error())

	_, err = ParseCommentPayload(url.Values{"body": {"x"}, "author": {"1"}})
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Has("author"))
}

func TestParseRegisterPayload(t *testing.T) {
	t.Parallel()

	got, err := ParseRegisterPayload(url.Values{
		"username": {" alice "},
		"email":    {"alice@example.com"},
		"password": {"secret1"},
	})
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)

	_, err = ParseRegisterPayload(url.Values{
		"username": {"a!"},
		"email":    {"nope"},
		"password": {"123"},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Has("username"))
	require.True(t, verr.Has("email"))
	require.True(t, verr.Has("password"))
}
