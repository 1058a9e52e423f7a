package utility

import "testing"

func TestCreateTokenParseTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tokenMap, err := CreateToken(secret, "65f000000000000000000001", "18e1a2b3c", "42")
	if err != nil {
		t.Fatalf("CreateToken thất bại: %v", err)
	}

	claims, err := ParseToken(secret, tokenMap["token"])
	if err != nil {
		t.Fatalf("ParseToken phải chấp nhận token do CreateToken ký: %v", err)
	}
	if claims["userId"] != "65f000000000000000000001" {
		t.Errorf("Claim userId sai: %v", claims["userId"])
	}
}

func TestParseToken_WrongSecretRejected(t *testing.T) {
	tokenMap, err := CreateToken("secret-a", "user", "0", "1")
	if err != nil {
		t.Fatalf("CreateToken thất bại: %v", err)
	}
	if _, err := ParseToken("secret-b", tokenMap["token"]); err == nil {
		t.Fatal("Token ký bằng secret khác phải bị từ chối")
	}
}

func TestParseToken_GarbageRejected(t *testing.T) {
	if _, err := ParseToken("secret", "không phải jwt"); err == nil {
		t.Fatal("Chuỗi không phải JWT phải bị từ chối")
	}
}
