// Command todo is a CLI client for the todo service.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "todo")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "todo")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

// ---- http ----

type apiError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Fields  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func (e *apiError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, "; "))
}

// call sends a JSON request and decodes the response into out. Non-2xx
// responses are returned as *apiError with the server's code and message.
func call(ctx context.Context, method, base, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ae := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(raw, ae) != nil || ae.Code == "" {
			return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return ae
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func readPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	var p string
	_, _ = fmt.Scanln(&p)
	return p
}

func usage() {
	fmt.Fprintf(os.Stderr, `todo CLI
Usage:
  todo -addr URL <cmd> [args]

Commands:
  version
  register   -email <email> -p <password> -name <name> -phone <phone>
  login      -email <email> -p <password>          (saves token)
  add        -title <title> [-desc <text>]
  list
  get        -id <uuid>
  edit       -id <uuid> [-title <title>] [-desc <text>]
  done       -id <uuid>
  rm         -id <uuid>
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

type todoRow struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// main dispatches subcommands against the HTTP API.
func main() {
	// global flags
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("todo %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		name := fs.String("name", "", "display name")
		phone := fs.String("phone", "", "phone number")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" || *name == "" || *phone == "" {
			fmt.Fprintln(os.Stderr, "need -email, -name and -phone")
			os.Exit(1)
		}
		if *p == "" {
			*p = readPassword("password: ")
		}

		var out struct {
			ID      string `json:"id"`
			Email   string `json:"email"`
			Name    string `json:"name"`
			Message string `json:"message"`
		}
		in := map[string]string{
			"email":           *email,
			"password":        *p,
			"passwordConfirm": *p,
			"name":            *name,
			"phoneNumber":     *phone,
		}
		if err := call(ctx, http.MethodPost, *addr, "/api/auth/signup", "", in, &out); err != nil {
			fail(err)
		}
		fmt.Println(out.ID)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" {
			fmt.Fprintln(os.Stderr, "need -email")
			os.Exit(1)
		}
		if *p == "" {
			*p = readPassword("password: ")
		}

		var out struct {
			AccessToken string `json:"accessToken"`
		}
		in := map[string]string{"email": *email, "password": *p}
		if err := call(ctx, http.MethodPost, *addr, "/api/auth/login", "", in, &out); err != nil {
			fail(err)
		}

		// parse exp from JWT
		var claims jwt.RegisteredClaims
		_, _ = jwt.ParseWithClaims(out.AccessToken, &claims, func(*jwt.Token) (any, error) { return nil, nil },
			jwt.WithoutClaimsValidation(),
		)
		exp := time.Now().Add(15 * time.Minute)
		if claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Time
		}
		if err := saveToken(out.AccessToken, exp); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		title := fs.String("title", "", "todo title")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(flag.Args()[1:])
		if *title == "" {
			fmt.Fprintln(os.Stderr, "need -title")
			os.Exit(1)
		}

		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		var out todoRow
		in := map[string]string{"title": *title, "description": *desc}
		if err := call(ctx, http.MethodPost, *addr, "/api/todos", token, in, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "list":
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		var out []todoRow
		if err := call(ctx, http.MethodGet, *addr, "/api/todos", token, nil, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "get":
		fs := flag.NewFlagSet("get", flag.ExitOnError)
		id := fs.String("id", "", "todo id (uuid)")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		var out todoRow
		if err := call(ctx, http.MethodGet, *addr, "/api/todos/"+*id, token, nil, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ExitOnError)
		id := fs.String("id", "", "todo id (uuid)")
		title := fs.String("title", "", "new title")
		desc := fs.String("desc", "", "new description")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		// only send fields the user actually set
		in := map[string]any{}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "title":
				in["title"] = *title
			case "desc":
				in["description"] = *desc
			}
		})
		if len(in) == 0 {
			fmt.Fprintln(os.Stderr, "nothing to change; pass -title or -desc")
			os.Exit(1)
		}

		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		var out todoRow
		if err := call(ctx, http.MethodPut, *addr, "/api/todos/"+*id, token, in, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "done":
		fs := flag.NewFlagSet("done", flag.ExitOnError)
		id := fs.String("id", "", "todo id (uuid)")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		var out todoRow
		if err := call(ctx, http.MethodPatch, *addr, "/api/todos/"+*id+"/complete", token, nil, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		id := fs.String("id", "", "todo id (uuid)")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		if err := call(ctx, http.MethodDelete, *addr, "/api/todos/"+*id, token, nil, nil); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	default:
		usage()
	}
}

// ---- helpers ----

func fail(err error) {
	var ae *apiError
	if errors.As(err, &ae) {
		fmt.Fprintf(os.Stderr, "api error: status=%d %s\n", ae.Status, ae.Error())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
