// Assinatura digital XMLDSig da NF-e: digest do conteúdo canônico,
// SignedInfo assinado com RSA e bloco Signature com o certificado.

package sefaz

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	NamespaceDSig      = "http://www.w3.org/2000/09/xmldsig#"
	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgRSASHA1         = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	AlgSHA1            = "http://www.w3.org/2000/09/xmldsig#sha1"
	AlgRSASHA256       = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	AlgSHA256          = "http://www.w3.org/2001/04/xmlenc#sha256"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

// algoritmo amarra o hash ao par de identificadores publicados no SignedInfo.
type algoritmo struct {
	hash          crypto.Hash
	urlAssinatura string
	urlDigest     string
}

var (
	algoritmoSHA1   = algoritmo{crypto.SHA1, AlgRSASHA1, AlgSHA1}
	algoritmoSHA256 = algoritmo{crypto.SHA256, AlgRSASHA256, AlgSHA256}
)

// Assinador assina fragmentos XML da NF-e (infNFe, infEvento) com o
// certificado do emitente.
type Assinador struct {
	cert *Certificado
	alg  algoritmo
}

// NovoAssinador cria o assinador com RSA-SHA1, o algoritmo aceito por todos
// os webservices da NF-e.
func NovoAssinador(cert *Certificado) *Assinador {
	return &Assinador{cert: cert, alg: algoritmoSHA1}
}

// NovoAssinadorSHA256 cria o assinador com RSA-SHA256.
func NovoAssinadorSHA256(cert *Certificado) *Assinador {
	return &Assinador{cert: cert, alg: algoritmoSHA256}
}

// DigestSHA1 calcula o digest SHA-1 em base64 do conteúdo canônico.
func DigestSHA1(conteudo string) string {
	soma := sha1.Sum([]byte(conteudo))
	return base64.StdEncoding.EncodeToString(soma[:])
}

func (a *Assinador) digest(conteudo string) string {
	h := a.alg.hash.New()
	h.Write([]byte(conteudo))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Assinar gera o bloco Signature completo para o conteúdo informado.
// referenciaURI é o Id do elemento assinado, com o # na frente
// (ex: "#NFe3524...").
//
// O conteúdo deve já estar na forma canônica de LimparXML; o digest é
// calculado sobre os bytes recebidos, sem retransformação.
func (a *Assinador) Assinar(conteudo, referenciaURI string) (string, error) {
	signedInfo := a.montarSignedInfo(a.digest(conteudo), referenciaURI)
	signedInfo = LimparXML(signedInfo)

	// O valor assinado cobre o SignedInfo canônico, não o documento.
	h := a.alg.hash.New()
	h.Write([]byte(signedInfo))
	assinatura, err := rsa.SignPKCS1v15(rand.Reader, a.cert.Chave, a.alg.hash, h.Sum(nil))
	if err != nil {
		return "", fmt.Errorf("sefaz: assinar SignedInfo: %w", err)
	}

	sb := &strings.Builder{}
	sb.WriteString(`<Signature xmlns="` + NamespaceDSig + `">`)
	sb.WriteString(signedInfo)
	sb.WriteString(`<SignatureValue>` + base64.StdEncoding.EncodeToString(assinatura) + `</SignatureValue>`)
	sb.WriteString(`<KeyInfo><X509Data><X509Certificate>` + a.cert.Base64() + `</X509Certificate></X509Data></KeyInfo>`)
	sb.WriteString(`</Signature>`)
	return sb.String(), nil
}

// montarSignedInfo escreve o SignedInfo com tags de fechamento explícitas
// (<X Algorithm="..."></X>). A SEFAZ recalcula o digest sobre esta forma
// exata; trocar por tags auto-fechadas altera os bytes assinados.
func (a *Assinador) montarSignedInfo(digest, referenciaURI string) string {
	sb := &strings.Builder{}
	sb.WriteString(`<SignedInfo xmlns="` + NamespaceDSig + `">`)
	sb.WriteString(`<CanonicalizationMethod Algorithm="` + AlgC14N + `"></CanonicalizationMethod>`)
	sb.WriteString(`<SignatureMethod Algorithm="` + a.alg.urlAssinatura + `"></SignatureMethod>`)
	sb.WriteString(`<Reference URI="` + referenciaURI + `">`)
	sb.WriteString(`<Transforms>`)
	sb.WriteString(`<Transform Algorithm="` + TransformEnveloped + `"></Transform>`)
	sb.WriteString(`<Transform Algorithm="` + AlgC14N + `"></Transform>`)
	sb.WriteString(`</Transforms>`)
	sb.WriteString(`<DigestMethod Algorithm="` + a.alg.urlDigest + `"></DigestMethod>`)
	sb.WriteString(`<DigestValue>` + digest + `</DigestValue>`)
	sb.WriteString(`</Reference>`)
	sb.WriteString(`</SignedInfo>`)
	return sb.String()
}
