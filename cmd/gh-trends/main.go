package main

import (
	"fmt"
	"log"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/fatih/color"
	"github.com/stahnma/gh-trends/internal/commands"
	"github.com/stahnma/gh-trends/internal/config"
	lambdapkg "github.com/stahnma/gh-trends/internal/lambda"
)

var (
	GitSHA   string
	GitDirty string
)

func main() {
	cfg := config.FromEnvironment()

	app, err := commands.NewApp(cfg, GitSHA, GitDirty)
	if err != nil {
		log.Fatalf("Error initializing application: %v", err)
	}

	if os.Getenv("LAMBDA_TASK_ROOT") != "" {
		awslambda.Start(lambdapkg.NewHandler(app))
		return
	}

	rootCmd := app.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if err := app.SaveCache(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving cache: %v\n", err)
		os.Exit(1)
	}
}
