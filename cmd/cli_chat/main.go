package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"visit-translator/internal/apiclient"
	"visit-translator/internal/audio"
	"visit-translator/internal/config"
	"visit-translator/internal/domain"
	"visit-translator/internal/kv"
	"visit-translator/internal/service"
	"visit-translator/internal/store"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	// El CLI guarda su propio historial local; el servidor solo traduce y resume.
	backend, err := kv.NewBolt(cfg.LocalStorePath)
	if err != nil {
		log.Fatal(err)
	}
	defer backend.Close()

	st := store.NewKVStore(backend, logger, nil)
	api := apiclient.New(cfg.APIBaseURL, nil, logger)
	notifier := service.NotifierFunc(func(msg string) {
		fmt.Printf("\n!! %s\n", msg)
	})
	orch := service.NewOrchestrator(st, api, api, notifier, logger)

	if err := orch.Load(ctx); err != nil {
		log.Fatalf("cargar historial: %v", err)
	}

	fmt.Println("===== Visit Translator =====")
	printHelp()
	printActive(orch)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return
			}
			log.Fatalf("leer entrada: %v", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := handleCommand(ctx, orch, line); quit {
			return
		}
	}
}

func handleCommand(ctx context.Context, orch *service.Orchestrator, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		printHelp()
	case "/new":
		if _, err := orch.NewConversation(ctx); err != nil {
			fmt.Printf("No se pudo crear la consulta: %v\n", err)
			return false
		}
		printActive(orch)
	case "/list":
		printConversations(orch.Conversations())
	case "/search":
		printConversations(orch.Search(arg))
	case "/open":
		convs := orch.Conversations()
		idx, err := strconv.Atoi(arg)
		if err != nil || idx < 1 || idx > len(convs) {
			fmt.Println("Seleccion invalida.")
			return false
		}
		orch.SelectConversation(ctx, convs[idx-1])
		printActive(orch)
	case "/doctor", "/patient":
		role := domain.Role(strings.TrimPrefix(cmd, "/"))
		send(ctx, orch, role, arg, "")
	case "/audio":
		roleArg, path, _ := strings.Cut(arg, " ")
		role, err := domain.ParseRole(roleArg)
		if err != nil {
			fmt.Println("Uso: /audio doctor|patient <archivo>")
			return false
		}
		dataURL, err := recordFile(strings.TrimSpace(path))
		if err != nil {
			fmt.Printf("No se pudo leer el audio: %v\n", err)
			return false
		}
		if dataURL == "" {
			fmt.Println("El audio esta vacio.")
			return false
		}
		send(ctx, orch, role, domain.AudioPlaceholder, dataURL)
	case "/summary":
		if len(orch.Messages()) == 0 {
			fmt.Println("No hay mensajes para resumir.")
			return false
		}
		fmt.Println("Generando resumen...")
		if err := orch.GenerateSummary(ctx); err != nil {
			fmt.Printf("Error guardando el resumen: %v\n", err)
			return false
		}
		if s := orch.Summary(); s != "" {
			fmt.Printf("\n--- Resumen ---\n%s\n", s)
		}
	default:
		fmt.Println("Comando desconocido. Usa /help.")
	}
	return false
}

func send(ctx context.Context, orch *service.Orchestrator, role domain.Role, text, audioData string) {
	if text == "" {
		fmt.Println("Escribe un mensaje.")
		return
	}
	msg, err := orch.SendMessage(ctx, text, role, audioData)
	if err != nil {
		fmt.Printf("No se pudo enviar: %v\n", err)
		return
	}
	printMessage(msg)
}

// recordFile usa un archivo como fuente de captura del Recorder.
func recordFile(path string) (string, error) {
	mimeType := audio.DefaultMimeType
	if byExt := mime.TypeByExtension(filepath.Ext(path)); strings.HasPrefix(byExt, "audio/") {
		mimeType = byExt
	}
	rec := audio.NewRecorder(func() (io.ReadCloser, error) { return os.Open(path) }, mimeType)
	if err := rec.Start(); err != nil {
		return "", err
	}
	return rec.Stop()
}

func printHelp() {
	fmt.Println("Comandos:")
	fmt.Println("  /doctor <texto>          mensaje del medico (se traduce al espanol)")
	fmt.Println("  /patient <texto>         mensaje del paciente (se traduce al ingles)")
	fmt.Println("  /audio <rol> <archivo>   adjunta un audio como mensaje")
	fmt.Println("  /summary                 genera el resumen de la consulta")
	fmt.Println("  /new                     nueva consulta")
	fmt.Println("  /list                    historial de consultas")
	fmt.Println("  /open <n>                abre la consulta n del historial")
	fmt.Println("  /search <texto>          busca en el historial")
	fmt.Println("  /quit                    salir")
}

func printActive(orch *service.Orchestrator) {
	conv, ok := orch.Active()
	if !ok {
		return
	}
	created := time.UnixMilli(conv.CreatedAt).Format("2006-01-02 15:04")
	fmt.Printf("\n--- Consulta %s (%s) %s / %s ---\n", shortID(conv.ID), created, conv.DoctorName, conv.PatientName)
	for _, m := range orch.Messages() {
		printMessage(m)
	}
	if s := orch.Summary(); s != "" {
		fmt.Printf("\n--- Resumen ---\n%s\n", s)
	}
}

func printMessage(m domain.Message) {
	suffix := ""
	if m.AudioData != "" {
		suffix = " [audio]"
	}
	fmt.Printf("[%s] %s%s\n    -> %s\n", m.Role, m.OriginalText, suffix, m.TranslatedText)
}

func printConversations(convs []domain.Conversation) {
	if len(convs) == 0 {
		fmt.Println("Sin resultados.")
		return
	}
	for i, c := range convs {
		preview := c.LastMessage
		if preview == "" {
			preview = "(sin mensajes)"
		}
		fmt.Printf("[%d] %s %s  %s\n", i+1, shortID(c.ID), time.UnixMilli(c.CreatedAt).Format("2006-01-02 15:04"), preview)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
