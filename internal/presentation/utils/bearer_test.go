package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetBearerToken(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{
			name:  "no token",
			setup: func(r *http.Request) {},
			want:  "",
		},
		{
			name: "authorization header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer abc")
			},
			want: "abc",
		},
		{
			name: "room token header",
			setup: func(r *http.Request) {
				r.Header.Set(HeaderRoomToken, "def")
			},
			want: "def",
		},
		{
			name: "authorization wins over room token header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer abc")
				r.Header.Set(HeaderRoomToken, "def")
			},
			want: "abc",
		},
		{
			name: "malformed authorization falls through",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic abc")
				r.Header.Set(HeaderRoomToken, "def")
			},
			want: "def",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)

			if got := GetBearerToken(r); got != tt.want {
				t.Errorf("GetBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetBearerToken_QueryFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?token=ghi", nil)

	if got := GetBearerToken(r); got != "ghi" {
		t.Errorf("GetBearerToken() = %q, want %q", got, "ghi")
	}
}
