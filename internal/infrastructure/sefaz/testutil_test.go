package sefaz_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GustavoOta/dfe/internal/infrastructure/sefaz"
)

// certificadoTeste gera um certificado autoassinado com chave RSA para os
// testes de assinatura e de eventos.
func certificadoTeste(t *testing.T) *sefaz.Certificado {
	t.Helper()

	chave, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "geração da chave RSA de teste não pode falhar")

	modelo := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "EMPRESA DE TESTE:54515633000161"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, modelo, modelo, &chave.PublicKey, chave)
	require.NoError(t, err, "emissão do certificado de teste não pode falhar")

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return &sefaz.Certificado{
		Chave: chave,
		X509:  cert,
		TLS:   tls.Certificate{Certificate: [][]byte{der}, PrivateKey: chave, Leaf: cert},
	}
}

// entreTags devolve o conteúdo do primeiro elemento com o nome dado, ou
// vazio quando ausente.
func entreTags(xml, nome string) string {
	abre := "<" + nome + ">"
	ini := strings.Index(xml, abre)
	if ini < 0 {
		return ""
	}
	ini += len(abre)
	fim := strings.Index(xml[ini:], "</"+nome+">")
	if fim < 0 {
		return ""
	}
	return xml[ini : ini+fim]
}
