// Command authcli is a small interactive client for the auth service HTTP
// API. Passwords are read from the terminal without echo.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

const usage = `usage: authcli [-addr http://host:port] <command> [args]

commands:
  register <email>        create an account (prompts for password)
  login <email>           obtain an access/refresh token pair
  refresh <refreshToken>  obtain a new access token
  revoke <refreshToken>   permanently invalidate a refresh token
  whoami <accessToken>    print the identity the token asserts
`

func main() {
	addr := "http://localhost:8080"

	args := os.Args[1:]
	if len(args) >= 2 && args[0] == "-addr" {
		addr = args[1]
		args = args[2:]
	}
	if len(args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	var err error
	switch args[0] {
	case "register":
		err = postCredentials(client, addr+"/api/auth/register", args[1])
	case "login":
		err = postCredentials(client, addr+"/api/auth/login", args[1])
	case "refresh":
		err = postToken(client, addr+"/api/auth/refresh", args[1])
	case "revoke":
		err = postToken(client, addr+"/api/auth/revoke", args[1])
	case "whoami":
		err = whoami(client, addr+"/api/auth/me", args[1])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func postCredentials(client *http.Client, url, email string) error {
	password, err := promptPassword()
	if err != nil {
		return err
	}
	return postJSON(client, url, map[string]string{"email": email, "password": password}, nil)
}

func postToken(client *http.Client, url, token string) error {
	return postJSON(client, url, map[string]string{"refresh_token": token}, nil)
}

func whoami(client *http.Client, url, accessToken string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postJSON(client *http.Client, url string, payload any, headers map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	fmt.Println(string(bytes.TrimSpace(data)))
	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
