package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/JorgeHRP/conteudoteste/internal/auth"
	"github.com/JorgeHRP/conteudoteste/internal/db"
	"github.com/JorgeHRP/conteudoteste/pkg/config"
)

type seedOptions struct {
	Nome    string
	Senha   string
	Empresa string
}

func parseSeedArgs(args []string) (seedOptions, error) {
	opts := seedOptions{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--nome", "-n":
			i++
			if i >= len(args) {
				return opts, fmt.Errorf("--nome requires a value")
			}
			opts.Nome = args[i]
		case "--senha", "-s":
			i++
			if i >= len(args) {
				return opts, fmt.Errorf("--senha requires a value")
			}
			opts.Senha = args[i]
		case "--empresa", "-e":
			i++
			if i >= len(args) {
				return opts, fmt.Errorf("--empresa requires a value")
			}
			opts.Empresa = args[i]
		default:
			return opts, fmt.Errorf("unknown seed flag: %s", args[i])
		}
	}

	if strings.TrimSpace(opts.Nome) == "" {
		return opts, fmt.Errorf("--nome is required")
	}
	if opts.Senha == "" {
		return opts, fmt.Errorf("--senha is required")
	}

	return opts, nil
}

// runSeed inserts one login user with a bcrypt-hashed password. This is the
// only code path that ever writes the usuarios table; the server only reads
// it.
func runSeed(cfg *config.Config, out io.Writer, args []string) error {
	opts, err := parseSeedArgs(args)
	if err != nil {
		return err
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	hash, err := auth.HashPassword(opts.Senha)
	if err != nil {
		return err
	}

	_, err = database.GetConn().Exec(
		"INSERT INTO usuarios (nome, senha, empresa) VALUES (?, ?, ?)",
		strings.TrimSpace(opts.Nome), hash, opts.Empresa,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("user %q already exists", opts.Nome)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	fmt.Fprintf(out, "Seeded user %q", opts.Nome)
	if opts.Empresa != "" {
		fmt.Fprintf(out, " (empresa %q)", opts.Empresa)
	}
	fmt.Fprintln(out)

	return nil
}
