// dfe é a interface de linha de comando do emissor: emite NF-e/NFC-e a
// partir de um arquivo JSON e registra eventos de cancelamento.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GustavoOta/dfe/internal/application/emissao"
	"github.com/GustavoOta/dfe/internal/domain/imposto"
	"github.com/GustavoOta/dfe/internal/domain/nota"
	"github.com/GustavoOta/dfe/internal/infrastructure/sefaz"
	"github.com/GustavoOta/dfe/pkg/config"
	"github.com/GustavoOta/dfe/pkg/logger"
	"github.com/GustavoOta/dfe/pkg/nfe"
)

func main() {
	if err := novoComandoRaiz().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func novoComandoRaiz() *cobra.Command {
	raiz := &cobra.Command{
		Use:           "dfe",
		Short:         "Emissor de NF-e e NFC-e (leiaute 4.00)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	raiz.AddCommand(novoComandoEmitir(), novoComandoCancelar())
	return raiz
}

// montarServico carrega configuração, certificado e logger e devolve o
// serviço de emissão pronto.
func montarServico() (*emissao.Servico, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("carregar configuração: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if cfg.NFe.CertPath == "" {
		return nil, nil, fmt.Errorf("NFE_CERT_PATH não configurado")
	}
	cert, err := carregarCertificado(cfg.NFe)
	if err != nil {
		return nil, nil, fmt.Errorf("carregar certificado: %w", err)
	}

	servico := emissao.NovoServico(
		cert,
		sefaz.NovoCliente(cert),
		sefaz.ValidadorEstrutural{},
		sefaz.CSC{Codigo: cfg.NFe.CSC, ID: cfg.NFe.CSCId},
		log,
	)
	servico.Montador.Politica = imposto.PoliticaIBSCBS{Desativado: cfg.NFe.IBSCBSDesativado}
	return servico, cfg, nil
}

// aplicarPadroes preenche com a configuração os campos de identificação que o
// arquivo da nota não trouxe. NFE_CONTINGENCIA direciona a emissão para a
// SVC-AN quando o arquivo não fixa o tipo de emissão.
func aplicarPadroes(doc *nota.Documento, cfg config.NFeConfig) {
	if doc.Ide.Modelo == 0 {
		doc.Ide.Modelo = cfg.Modelo
	}
	if doc.Ide.TpAmb == 0 {
		doc.Ide.TpAmb = cfg.Ambiente
	}
	if doc.Ide.TpEmis == 0 {
		doc.Ide.TpEmis = nfe.EmissaoNormal
		if cfg.Contingencia {
			doc.Ide.TpEmis = nfe.EmissaoContingenciaAN
		}
	}
}

func carregarCertificado(cfg config.NFeConfig) (*sefaz.Certificado, error) {
	caminho := strings.ToLower(cfg.CertPath)
	if strings.HasSuffix(caminho, ".p12") || strings.HasSuffix(caminho, ".pfx") {
		return sefaz.CarregarPFX(cfg.CertPath, cfg.CertPassword)
	}
	return sefaz.CarregarPEM(cfg.CertPath, cfg.CertKeyPath)
}

func novoComandoEmitir() *cobra.Command {
	var arquivo, saida string

	cmd := &cobra.Command{
		Use:   "emitir",
		Short: "Emite uma NF-e/NFC-e a partir de um arquivo JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			servico, cfg, err := montarServico()
			if err != nil {
				return err
			}

			dados, err := os.ReadFile(arquivo)
			if err != nil {
				return fmt.Errorf("ler arquivo da nota: %w", err)
			}
			var doc nota.Documento
			if err := json.Unmarshal(dados, &doc); err != nil {
				return fmt.Errorf("interpretar arquivo da nota: %w", err)
			}
			doc.Normalizar()
			aplicarPadroes(&doc, cfg.NFe)

			ctx, cancelar := context.WithTimeout(cmd.Context(), cfg.HTTP.Timeout())
			defer cancelar()

			resultado, err := servico.Emitir(ctx, doc)
			if err != nil {
				return err
			}

			for _, e := range resultado.ErrosItem {
				fmt.Fprintf(os.Stderr, "aviso: item %d, %s: %v\n", e.Item, e.Tributo, e.Erro)
			}
			fmt.Printf("chave:    %s\n", resultado.Chave)
			fmt.Printf("cStat:    %d (%s)\n", resultado.Protocolo.CStat, resultado.Protocolo.XMotivo)
			if resultado.Autorizada() {
				fmt.Printf("protocolo: %s\n", resultado.Protocolo.NProt)
			}

			if saida != "" {
				if err := os.WriteFile(saida, []byte(resultado.XML), 0o644); err != nil {
					return fmt.Errorf("gravar XML: %w", err)
				}
			}
			if !resultado.Autorizada() {
				return fmt.Errorf("documento rejeitado: cStat %d", resultado.Protocolo.CStat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&arquivo, "arquivo", "a", "", "arquivo JSON com os dados da nota (obrigatório)")
	cmd.Flags().StringVarP(&saida, "saida", "o", "", "arquivo de saída do XML (nfeProc quando autorizada)")
	_ = cmd.MarkFlagRequired("arquivo")
	return cmd
}

func novoComandoCancelar() *cobra.Command {
	var chave, protocolo, justificativa string

	cmd := &cobra.Command{
		Use:   "cancelar",
		Short: "Registra o evento de cancelamento de um documento autorizado",
		RunE: func(cmd *cobra.Command, args []string) error {
			servico, cfg, err := montarServico()
			if err != nil {
				return err
			}

			ctx, cancelarCtx := context.WithTimeout(cmd.Context(), cfg.HTTP.Timeout())
			defer cancelarCtx()

			retorno, err := servico.Cancelar(ctx, sefaz.Cancelamento{
				Chave:         chave,
				Protocolo:     protocolo,
				Justificativa: justificativa,
				TpAmb:         cfg.NFe.Ambiente,
			})
			if err != nil {
				return err
			}

			fmt.Printf("cStat:   %s (%s)\n", retorno.Evento.CStat, retorno.Evento.XMotivo)
			fmt.Printf("registro: %s\n", retorno.Evento.DhRegEvento)
			return nil
		},
	}

	cmd.Flags().StringVar(&chave, "chave", "", "chave de acesso do documento (44 dígitos)")
	cmd.Flags().StringVar(&protocolo, "protocolo", "", "número do protocolo de autorização")
	cmd.Flags().StringVar(&justificativa, "justificativa", "", "justificativa do cancelamento (15 a 255 caracteres)")
	_ = cmd.MarkFlagRequired("chave")
	_ = cmd.MarkFlagRequired("protocolo")
	_ = cmd.MarkFlagRequired("justificativa")
	return cmd
}
