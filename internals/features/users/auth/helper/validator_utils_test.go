package helper

import "testing"

func TestValidateRegisterInput(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "devotee@example.com", "bhakti108", false},
		{"bad email", "not-an-email", "bhakti108", true},
		{"short password", "devotee@example.com", "ab1", true},
		{"letters only", "devotee@example.com", "onlyletters", true},
		{"numbers only", "devotee@example.com", "12345678", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegisterInput(tc.email, tc.password)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("bhakti108")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := CheckPasswordHash(hash, "bhakti108"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := CheckPasswordHash(hash, "wrong-password"); err == nil {
		t.Fatal("wrong password accepted")
	}
}
