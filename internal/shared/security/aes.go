package security

import (
	"github.com/go-think/openssl"
)

// AesCBCEncrypt ws 载荷加密，key 长度必须是 16/24/32。
func AesCBCEncrypt(src, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCEncrypt(src, key, iv, padding)
}

func AesCBCDecrypt(src, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCDecrypt(src, key, iv, padding)
}
