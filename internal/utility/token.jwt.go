package utility

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// CreateToken tạo JWT token cho user.
// Token chứa userId, thời điểm tạo (hex) và số ngẫu nhiên để đảm bảo mỗi lần login ra token khác nhau.
//
// Trả về map có key "token" chứa chuỗi JWT đã ký.
func CreateToken(secret string, userID string, createdTime string, randomNumber string) (map[string]string, error) {
	claims := jwt.MapClaims{
		"userId":       userID,
		"time":         createdTime,
		"randomNumber": randomNumber,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("không thể ký JWT token: %w", err)
	}

	return map[string]string{"token": signed}, nil
}

// ParseToken parse và verify JWT token, trả về claims nếu token hợp lệ.
func ParseToken(secret string, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký không hợp lệ: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("token không hợp lệ")
	}
	return claims, nil
}
