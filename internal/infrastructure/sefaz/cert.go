package sefaz

import (
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/GustavoOta/dfe/internal/domain"
)

// Certificado é o certificado digital A1 do emitente, já aberto: a chave RSA
// assina o XML e o par TLS autentica a conexão com a SEFAZ.
type Certificado struct {
	Chave *rsa.PrivateKey
	X509  *x509.Certificate
	TLS   tls.Certificate
}

// CarregarPFX abre um arquivo PKCS#12 (.pfx) com a senha informada.
func CarregarPFX(caminho, senha string) (*Certificado, error) {
	dados, err := os.ReadFile(caminho)
	if err != nil {
		return nil, fmt.Errorf("sefaz: ler certificado %s: %w", caminho, err)
	}
	return CarregarPKCS12(dados, senha)
}

// CarregarPKCS12 abre um certificado PKCS#12 já em memória.
func CarregarPKCS12(dados []byte, senha string) (*Certificado, error) {
	chave, cert, err := pkcs12.Decode(dados, senha)
	if err != nil {
		return nil, fmt.Errorf("sefaz: decodificar PKCS#12: %w", err)
	}
	rsaChave, ok := chave.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("sefaz: %w", domain.ErrCertificadoInvalido)
	}
	return &Certificado{
		Chave: rsaChave,
		X509:  cert,
		TLS: tls.Certificate{
			Certificate: [][]byte{cert.Raw},
			PrivateKey:  rsaChave,
			Leaf:        cert,
		},
	}, nil
}

// CarregarPEM abre o par certificado + chave privada em arquivos PEM
// separados, para emitentes que já convertem o A1 fora do emissor.
func CarregarPEM(caminhoCert, caminhoChave string) (*Certificado, error) {
	par, err := tls.LoadX509KeyPair(caminhoCert, caminhoChave)
	if err != nil {
		return nil, fmt.Errorf("sefaz: ler par PEM: %w", err)
	}
	cert, err := x509.ParseCertificate(par.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("sefaz: interpretar certificado PEM: %w", err)
	}
	rsaChave, ok := par.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("sefaz: %w", domain.ErrCertificadoInvalido)
	}
	par.Leaf = cert
	return &Certificado{Chave: rsaChave, X509: cert, TLS: par}, nil
}

// Base64 devolve o certificado em DER/base64 numa única linha, sem os
// delimitadores PEM, no formato esperado pela tag X509Certificate.
func (c *Certificado) Base64() string {
	return base64.StdEncoding.EncodeToString(c.X509.Raw)
}
