package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/postgres"
	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"google.golang.org/api/option"

	"github.com/amanecerai/server/auth"
	"github.com/amanecerai/server/handlers"
	"github.com/amanecerai/server/message"
	"github.com/amanecerai/server/repositories"
	"github.com/amanecerai/server/session"
)

const defaultPort = "8080"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("File .env not found!")
	}

	database := DB()

	authClient := firebaseAuth()

	profiles := repositories.NewProfileRepository(database)
	moods := repositories.NewMoodRepository(database)
	chats := repositories.NewChatRepository(database)
	sessions := session.NewRegistry(profiles, moods)
	generator := message.NewGenerator(
		os.Getenv("GENAI_API_KEY"),
		os.Getenv("GENAI_BASE_URL"),
		os.Getenv("GENAI_MODEL"),
	)

	h := handlers.New(profiles, moods, chats, sessions, generator)

	router := chi.NewRouter()
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{os.Getenv("APP_URL"), "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	// Stripe signs its own requests; no Firebase token here.
	router.Post("/api/stripe/webhook", h.StripeWebhook)

	router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(authClient))
		r.Mount("/", h.Routes())
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	log.Printf("listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

// DB gets a connection to the database.
// This can panic for malformed database connection strings, invalid credentials, or non-existance database instance.
func DB() *sql.DB {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		conn, err := sql.Open("postgres", url)
		if err != nil {
			panic(fmt.Sprintf("DB: %v", err))
		}
		return conn
	}

	var (
		connectionName = mustGetenv("CLOUDSQL_CONNECTION_NAME")
		user           = mustGetenv("CLOUDSQL_USER")
		dbName         = os.Getenv("CLOUDSQL_DATABASE_NAME")
		password       = os.Getenv("CLOUDSQL_PASSWORD")
		socket         = os.Getenv("CLOUDSQL_SOCKET_PREFIX")
	)

	// /cloudsql is used on App Engine.
	if socket == "" {
		socket = "/cloudsql"
	}

	dbURI := fmt.Sprintf("host=%s dbname=%s user=%s password=%s sslmode=disable", connectionName, dbName, user, password)
	conn, err := sql.Open("cloudsqlpostgres", dbURI)
	if err != nil {
		panic(fmt.Sprintf("DB: %v", err))
	}

	return conn
}

func firebaseAuth() *fbauth.Client {
	var opts []option.ClientOption
	if creds := os.Getenv("FIREBASE_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	app, err := firebase.NewApp(context.Background(), nil, opts...)
	if err != nil {
		log.Fatalf("firebase app: %v", err)
	}

	client, err := app.Auth(context.Background())
	if err != nil {
		log.Fatalf("firebase auth: %v", err)
	}

	return client
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Panicf("%s environment variable not set.", k)
	}
	return v
}
