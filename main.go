package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"interview-recorder/internal/audio"
	"interview-recorder/internal/config"
	"interview-recorder/internal/metrics"
	"interview-recorder/internal/pipeline"
	"interview-recorder/internal/progress"
	"interview-recorder/internal/refiner"
	"interview-recorder/internal/server"
	"interview-recorder/internal/store"
	"interview-recorder/internal/transcriber"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("🎙️ Запуск Interview Recorder...")

	// Загружаем переменные окружения; отсутствие .env не фатально,
	// ключи могут прийти из окружения процесса
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения процесса")
	}

	cfg, err := config.Load("config/server.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Groq.APIKey == "" {
		log.Fatal("GROQ_API_KEY не установлен: распознавание речи недоступно")
	}

	// Инициализируем сервисы
	fmt.Println("🔧 Инициализация сервисов...")

	storeService := store.New(cfg.Storage.DataDir)
	normalizer := audio.NewNormalizer(cfg.Audio.FFmpegPath)
	transcriberClient := transcriber.NewClient(cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.Timeout)
	fmt.Println("✅ Хранилище и распознавание инициализированы")

	// Чистка транскриптов необязательна: без ключа сохраняется сырой текст
	var refinerClient refiner.Refiner
	if cfg.Anthropic.APIKey != "" {
		refinerClient = refiner.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model,
			cfg.Anthropic.MaxTokens, cfg.Anthropic.Timeout)
		fmt.Println("✅ Чистка транскриптов включена 🧠")
	} else {
		log.Println("⚠️ ANTHROPIC_API_KEY не установлен: транскрипты сохраняются без чистки")
	}

	metricsService := metrics.NewMetrics()
	pipelineService := pipeline.New(storeService, normalizer, transcriberClient,
		refinerClient, metricsService, int64(cfg.Pipeline.MaxConcurrentCalls))
	tracker := progress.New(storeService)
	handler := server.NewHandler(storeService, pipelineService, tracker, metricsService)
	fmt.Println("✅ Конвейер обработки инициализирован")

	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Порт: %d\n", cfg.Server.Port)
	fmt.Printf("• Каталог данных: %s\n", cfg.Storage.DataDir)
	fmt.Printf("• Модель распознавания: %s\n", cfg.Groq.Model)
	fmt.Printf("• Одновременных внешних вызовов: до %d\n", cfg.Pipeline.MaxConcurrentCalls)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🌐 Сервер запущен на порту %d\n", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	// Ожидаем сигнал завершения и останавливаем сервер аккуратно
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	fmt.Println("\n⏳ Останавливаем сервер...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Ошибка остановки сервера: %v", err)
	}
	fmt.Println("👋 Сервер остановлен")
}
