// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string        `yaml:"storage_connection_string"`
	RabbitConnectionString  string        `yaml:"rabbit_connection_string"`
	RabbitMaxRetries        int           `yaml:"rabbit_max_retries" env-default:"5"`
	RabbitRetryDelay        time.Duration `yaml:"rabbit_retry_delay" env-default:"3s"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	PayPal                  `yaml:"paypal"`
	Gemini                  `yaml:"gemini"`
	Speech                  `yaml:"speech"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	BaseURL     string        `yaml:"base_url"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// PayPal структура для настройки платёжного провайдера.
// Style выбирает адаптер: "orders" (create+capture) или "payments" (create+execute).
type PayPal struct {
	ClientID         string        `yaml:"client_id" env:"PAYPAL_CLIENT_ID"`
	ClientSecret     string        `yaml:"client_secret" env:"PAYPAL_CLIENT_SECRET"`
	APIURL           string        `yaml:"api_url" env-default:"https://api-m.sandbox.paypal.com"`
	Style            string        `yaml:"style" env-default:"orders"`
	SubscriptionCost string        `yaml:"subscription_cost" env-default:"7.00"`
	TimeoutPayPal    time.Duration `yaml:"timeout" env-default:"10s"`
}

// Gemini структура для настройки генеративной модели
type Gemini struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env-default:"gemini-2.0-flash"`
}

// Speech структура для настройки синтеза речи
type Speech struct {
	SpeechURL     string        `yaml:"speech_url" env-default:"https://translate.google.com/translate_tts"`
	TimeoutSpeech time.Duration `yaml:"timeout" env-default:"15s"`
}

// SMTP структура для отправки писем оператору сервиса
type SMTP struct {
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	SMTPUser      string `yaml:"user"`
	SMTPPassword  string `yaml:"password"`
	OperatorEmail string `yaml:"operator_email"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
