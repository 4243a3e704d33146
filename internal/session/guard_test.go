package session

import "testing"

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		target       RouteMeta
		tokenPresent bool
		want         Decision
	}{
		{
			name:         "protected route without token redirects to login",
			target:       RouteMeta{Path: "/matriculas", RequiresAuth: true},
			tokenPresent: false,
			want:         RedirectLogin,
		},
		{
			name:         "login route with token redirects home",
			target:       RouteMeta{Path: LoginPath, RequiresAuth: false},
			tokenPresent: true,
			want:         RedirectHome,
		},
		{
			name:         "public route without token is allowed",
			target:       RouteMeta{Path: "/", RequiresAuth: false},
			tokenPresent: false,
			want:         Allow,
		},
		{
			name:         "protected route with token is allowed",
			target:       RouteMeta{Path: "/profesores", RequiresAuth: true},
			tokenPresent: true,
			want:         Allow,
		},
		{
			name:         "login route without token is allowed",
			target:       RouteMeta{Path: LoginPath, RequiresAuth: false},
			tokenPresent: false,
			want:         Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.target, tt.tokenPresent)
			if got != tt.want {
				t.Errorf("Evaluate(%+v, token=%v) = %v, want %v", tt.target, tt.tokenPresent, got, tt.want)
			}
		})
	}
}
