package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/thebest-sistemas/api/internal/asaas"
	"github.com/thebest-sistemas/api/internal/auth"
	"github.com/thebest-sistemas/api/internal/cobranca"
	"github.com/thebest-sistemas/api/internal/config"
	"github.com/thebest-sistemas/api/internal/database"
	"github.com/thebest-sistemas/api/internal/deposito"
	"github.com/thebest-sistemas/api/internal/empresa"
	"github.com/thebest-sistemas/api/internal/nfe"
	"github.com/thebest-sistemas/api/internal/nuvemfiscal"
	"github.com/thebest-sistemas/api/internal/perfil"
	"github.com/thebest-sistemas/api/internal/pessoa"
	"github.com/thebest-sistemas/api/internal/produto"
	"github.com/thebest-sistemas/api/internal/revenda"
)

func main() {
	cfg := config.Load()
	auth.Configurar(cfg.JWTSecret)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("erro ao conectar no banco: %v", err)
	}

	err = db.AutoMigrate(
		&perfil.Usuario{},
		&perfil.Perfil{},
		&perfil.PerfilUser{},
		&pessoa.Pessoa{},
		&pessoa.PessoaTelefone{},
		&pessoa.PessoaContato{},
		&pessoa.PessoaRedeSocial{},
		&pessoa.PessoaAnexo{},
		&produto.Grupo{},
		&produto.SubGrupo{},
		&produto.Produto{},
		&produto.ProdImagem{},
		&produto.ProdVariacao1{},
		&produto.ProdVariacao2{},
		&produto.TabelaPreco{},
		&produto.TabelaPrecoItem{},
		&deposito.Deposito{},
		&empresa.Empresa{},
		&nfe.NotaFiscal{},
		&cobranca.Cobranca{},
		&cobranca.AsaasCliente{},
		&cobranca.AsaasConta{},
	)
	if err != nil {
		log.Fatalf("erro ao migrar o banco: %v", err)
	}

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("erro ao conectar no redis: %v", err)
	}
	cache := database.NewCache(rdb)
	eventos := cobranca.NewEventosRedis(rdb)

	asaasClient := asaas.NewClient(nil, cfg.AsaasEnv, cfg.AsaasAPIKey)
	fiscalClient := nuvemfiscal.NewClient(nil, cfg.NuvemFiscalAmbiente, cfg.NuvemFiscalClientID, cfg.NuvemFiscalClientSecret)

	perfilHandler := perfil.NewHandler(db, cache, cfg.BaseDomain)
	pessoaHandler := pessoa.NewHandler(db)
	produtoHandler := produto.NewHandler(db, produto.NewRepository())
	depositoHandler := deposito.NewHandler(db, deposito.NewRepository())
	empresaRepo := empresa.NewRepository()
	empresaHandler := empresa.NewHandler(db, empresaRepo, fiscalClient)
	nfeHandler := nfe.NewHandler(db, nfe.NewRepository(), empresaRepo, fiscalClient)
	cobrancaHandler := cobranca.NewHandler(db, eventos, eventos)
	revendaHandler := revenda.NewHandler(db, asaasClient)
	asaasProxy := asaas.NewHandler(asaasClient)

	r := mux.NewRouter()

	// rotas públicas
	r.HandleFunc("/auth/login", perfilHandler.Login).Methods("POST")
	r.HandleFunc("/perfis", perfilHandler.CriarPerfil).Methods("POST")
	r.HandleFunc("/perfis/publico", perfilHandler.PerfilPublico).Methods("GET")
	r.HandleFunc("/webhooks/asaas", cobrancaHandler.WebhookAsaas).Methods("POST")

	// rotas autenticadas
	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareAutenticacao)

	api.HandleFunc("/auth/meus-perfis", perfilHandler.MeusPerfis).Methods("GET")
	api.HandleFunc("/auth/selecionar-perfil", perfilHandler.SelecionarPerfil).Methods("POST")
	api.HandleFunc("/perfis/{id}", perfilHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/perfis/{id}", perfilHandler.Atualizar).Methods("PUT")

	api.HandleFunc("/pessoas", pessoaHandler.Criar).Methods("POST")
	api.HandleFunc("/pessoas", pessoaHandler.Listar).Methods("GET")
	api.HandleFunc("/pessoas/{id}", pessoaHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/pessoas/{id}", pessoaHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/pessoas/{id}", pessoaHandler.Deletar).Methods("DELETE")

	api.HandleFunc("/produtos", produtoHandler.Criar).Methods("POST")
	api.HandleFunc("/produtos", produtoHandler.Listar).Methods("GET")
	api.HandleFunc("/produtos/{id}", produtoHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/produtos/{id}", produtoHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/produtos/{id}", produtoHandler.Deletar).Methods("DELETE")

	api.HandleFunc("/grupos", produtoHandler.SalvarGrupo).Methods("POST")
	api.HandleFunc("/grupos", produtoHandler.ListarGrupos).Methods("GET")
	api.HandleFunc("/grupos/{id}", produtoHandler.DeletarGrupo).Methods("DELETE")
	api.HandleFunc("/subgrupos", produtoHandler.SalvarSubGrupo).Methods("POST")
	api.HandleFunc("/subgrupos", produtoHandler.ListarSubGrupos).Methods("GET")
	api.HandleFunc("/subgrupos/{id}", produtoHandler.DeletarSubGrupo).Methods("DELETE")

	api.HandleFunc("/tabelas-precos", produtoHandler.SalvarTabelaPreco).Methods("POST")
	api.HandleFunc("/tabelas-precos", produtoHandler.ListarTabelasPreco).Methods("GET")
	api.HandleFunc("/tabelas-precos/{id}", produtoHandler.BuscarTabelaPreco).Methods("GET")
	api.HandleFunc("/tabelas-precos/{id}", produtoHandler.DeletarTabelaPreco).Methods("DELETE")

	api.HandleFunc("/depositos", depositoHandler.Criar).Methods("POST")
	api.HandleFunc("/depositos", depositoHandler.Listar).Methods("GET")
	api.HandleFunc("/depositos/{id}", depositoHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/depositos/{id}", depositoHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/depositos/{id}", depositoHandler.Deletar).Methods("DELETE")

	api.HandleFunc("/empresas", empresaHandler.Criar).Methods("POST")
	api.HandleFunc("/empresas", empresaHandler.Listar).Methods("GET")
	api.HandleFunc("/empresas/{id}", empresaHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/empresas/{id}", empresaHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/empresas/{id}", empresaHandler.Deletar).Methods("DELETE")
	api.HandleFunc("/empresas/{id}/certificado", empresaHandler.Certificado).Methods("GET")
	api.HandleFunc("/empresas/{id}/certificado", empresaHandler.EnviarCertificado).Methods("PUT")
	api.HandleFunc("/empresas/{id}/certificado", empresaHandler.ExcluirCertificado).Methods("DELETE")

	api.HandleFunc("/nfe", nfeHandler.Emitir).Methods("POST")
	api.HandleFunc("/nfe", nfeHandler.Listar).Methods("GET")
	api.HandleFunc("/nfe/{id}", nfeHandler.BuscarPorID).Methods("GET")

	api.HandleFunc("/cobrancas", cobrancaHandler.Listar).Methods("GET")
	api.HandleFunc("/cobrancas/pendentes", cobrancaHandler.Pendente).Methods("GET")
	api.HandleFunc("/cobrancas/eventos", cobrancaHandler.Eventos).Methods("GET")

	// área de revenda: exige perfil do tipo revenda
	rev := r.PathPrefix("/revendas").Subrouter()
	rev.Use(auth.MiddlewareAutenticacao, auth.RequireTipo(perfil.TipoRevenda))
	rev.HandleFunc("/status", revendaHandler.Status).Methods("GET")
	rev.HandleFunc("/ativar_revenda", revendaHandler.Ativar).Methods("POST")
	rev.HandleFunc("/subconta", revendaHandler.CriarSubconta).Methods("POST")
	rev.HandleFunc("/subconta", revendaHandler.StatusSubconta).Methods("GET")

	// proxy do gateway: restrito ao master
	master := r.PathPrefix("/api/asaas").Subrouter()
	master.Use(auth.MiddlewareAutenticacao, auth.RequireTipo(perfil.TipoMaster))
	master.HandleFunc("", asaasProxy.Proxy).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	})

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	log.Printf("API ouvindo em %s", addr)
	log.Fatal(http.ListenAndServe(addr, c.Handler(r)))
}
