// Package auth — проверка учётных данных: валидация, хэширование, вход.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// Дайджест для "пользователь не найден": сравнение всё равно выполняется,
// чтобы путь с неизвестным логином стоил столько же, сколько с известным.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hash — bcrypt с солью; одинаковые пароли дают разные дайджесты,
// соответствие проверяется только через Verify.
func Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

func verifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyDigest), []byte(plaintext))
}
