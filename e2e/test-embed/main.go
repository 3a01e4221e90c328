package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/astro-web3/metabase-embed/internal/domain/embed"
	httpclient "github.com/astro-web3/metabase-embed/pkg/http"
	"github.com/astro-web3/metabase-embed/pkg/otel"
	"github.com/astro-web3/metabase-embed/pkg/tracer"
	"github.com/golang-jwt/jwt/v5"
)

const (
	linkPrefix = "/embed/dashboard/"
	linkSuffix = "#bordered=true&titled=true"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <dashboard> [server-addr]", os.Args[0])
	}

	dashboard := os.Args[1]
	serverAddr := "http://localhost:8080"
	if len(os.Args) > 2 {
		serverAddr = "http://localhost" + os.Args[2]
	}

	key := os.Getenv("METABASE_KEY")
	if key == "" {
		log.Fatal("METABASE_KEY must be set to verify the token")
	}

	// With a collector configured the request joins a trace that the
	// server continues, so both sides show up together.
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		otelCfg := otel.DefaultConfig("metabase-embed-e2e")
		otelCfg.Enabled = true
		otelCfg.EndpointURL = endpoint
		if err := tracer.InitTracer(otelCfg); err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer func() {
			if err := otel.Shutdown(context.Background()); err != nil {
				log.Printf("Failed to flush spans: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := httpclient.Get(ctx, serverAddr+"/", httpclient.WithQueryParam("dashboard", dashboard))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode() != http.StatusOK {
		fmt.Printf("❌ Link issuance FAILED\n")
		fmt.Printf("Status: %d\n", resp.StatusCode())
		fmt.Printf("Body: %s\n", resp.String())
		os.Exit(1)
	}

	link := resp.String()
	fmt.Println("✅ Link issued")
	fmt.Printf("   Content-Type: %s\n", resp.Header().Get("Content-Type"))
	fmt.Printf("   URL: %s\n", link)
	if traceparent := resp.Request.Header.Get("traceparent"); traceparent != "" {
		fmt.Printf("   traceparent: %s\n", traceparent)
	}

	start := strings.Index(link, linkPrefix)
	if start < 0 || !strings.HasSuffix(link, linkSuffix) {
		log.Fatalf("Unexpected link format: %s", link)
	}
	token := strings.TrimSuffix(link[start+len(linkPrefix):], linkSuffix)

	claims := &embed.Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(key), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		log.Fatalf("❌ Token verification failed: %v", err)
	}

	payload, err := json.MarshalIndent(claims, "   ", "  ")
	if err != nil {
		log.Fatalf("Failed to render claims: %v", err)
	}

	fmt.Printf("\n✅ Token verified\n")
	fmt.Printf("   Claims: %s\n", payload)
	fmt.Printf("   Expires in: %s\n", time.Until(claims.ExpiresAt.Time).Round(time.Second))
}
