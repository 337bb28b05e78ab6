package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes es el límite duro de bcrypt. Entradas más largas se
// rechazan en vez de truncarse en silencio.
const maxPasswordBytes = 72

// ErrPasswordTooLong indica una contraseña que excede el límite de bcrypt.
var ErrPasswordTooLong = errors.New("password too long")

// HashPassword recibe la contraseña en claro y devuelve un hash bcrypt con
// sal aleatoria; llamadas repetidas producen hashes distintos.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// VerifyPassword compara la contraseña en claro contra el hash almacenado.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
