package repo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-git/go-git/v6/plumbing/transport"
	githttp "github.com/go-git/go-git/v6/plumbing/transport/http"
	"github.com/go-git/go-git/v6/plumbing/transport/ssh"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sethgrid/pester"

	"github.com/relog-dev/relog/core"
)

// AuthType defines the type of authentication used for remote repositories.
type AuthType string

const (
	AuthTypeNone      AuthType = "none"
	AuthTypeToken     AuthType = "token"
	AuthTypeSSH       AuthType = "ssh"
	AuthTypeBasic     AuthType = "basic"
	AuthTypeGitHubApp AuthType = "github-app"
)

// Auth holds authentication configuration for cloning remote repositories.
type Auth struct {
	Type       AuthType
	Token      string // For token auth
	KeyPath    string // For SSH key auth
	Passphrase string // For SSH key with passphrase
	Username   string // For basic auth
	Password   string // For basic auth

	// GitHub App credentials. The app's private key signs a short-lived JWT
	// that is exchanged for an installation access token.
	AppID           string
	AppKeyPath      string
	AppInstallation string
	APIBase         string // defaults to https://api.github.com
}

// method converts Auth to go-git's AuthMethod.
func (a *Auth) method() (transport.AuthMethod, error) {
	if a == nil {
		return nil, nil
	}

	switch a.Type {
	case "", AuthTypeNone:
		return nil, nil

	case AuthTypeToken:
		// Token auth uses username "git" or any non-empty string
		return &githttp.BasicAuth{
			Username: "git",
			Password: a.Token,
		}, nil

	case AuthTypeSSH:
		keyPath := a.KeyPath
		if keyPath == "" {
			home, _ := os.UserHomeDir()
			keyPath = home + "/.ssh/id_rsa"
		}
		return ssh.NewPublicKeysFromFile("git", keyPath, a.Passphrase)

	case AuthTypeBasic:
		return &githttp.BasicAuth{
			Username: a.Username,
			Password: a.Password,
		}, nil

	case AuthTypeGitHubApp:
		token, err := a.installationToken()
		if err != nil {
			return nil, err
		}
		return &githttp.BasicAuth{
			Username: "x-access-token",
			Password: token,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown auth type %q", core.ErrConfig, a.Type)
	}
}

// installationToken mints an app JWT and exchanges it for an installation
// access token.
func (a *Auth) installationToken() (string, error) {
	if a.AppID == "" || a.AppKeyPath == "" || a.AppInstallation == "" {
		return "", fmt.Errorf("%w: github-app auth requires app id, key path and installation id", core.ErrConfig)
	}

	appJWT, err := a.signAppJWT()
	if err != nil {
		return "", err
	}

	apiBase := a.APIBase
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	url := fmt.Sprintf("%s/app/installations/%s/access_tokens", apiBase, a.AppInstallation)

	client := pester.New()
	client.MaxRetries = 3
	client.Backoff = pester.ExponentialJitterBackoff
	client.KeepLog = true
	client.Timeout = time.Second * 30

	request, err := http.NewRequest("POST", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	request.Header.Add("Authorization", fmt.Sprintf("Bearer %v", appJWT))
	request.Header.Add("Accept", "application/vnd.github+json")

	response, err := client.Do(request)
	if err != nil {
		return "", fmt.Errorf("%w: installation token exchange failed: %v (%v)", core.ErrTransport, err, client.LogString())
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: installation token exchange returned status %d", core.ErrTransport, response.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: failed to decode token response: %v", core.ErrFormat, err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("%w: installation token response had no token", core.ErrService)
	}

	return body.Token, nil
}

// signAppJWT builds the RS256 app token GitHub expects: issued by the app id,
// backdated a minute against clock skew, valid for under ten minutes.
func (a *Auth) signAppJWT() (string, error) {
	pem, err := os.ReadFile(a.AppKeyPath)
	if err != nil {
		return "", fmt.Errorf("%w: app key %q", core.ErrNotFound, a.AppKeyPath)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse app key: %v", core.ErrFormat, err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": a.AppID,
		"iat": jwt.NewNumericDate(now.Add(-time.Minute)),
		"exp": jwt.NewNumericDate(now.Add(9 * time.Minute)),
	})

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign app token: %w", err)
	}
	return signed, nil
}
