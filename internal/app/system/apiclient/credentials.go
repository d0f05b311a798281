// internal/app/system/apiclient/credentials.go
package apiclient

import (
	"encoding/json"
	"net/http"
)

// Cookie is a name/value pair the API set at login.
type Cookie struct {
	Name  string `json:"n"`
	Value string `json:"v"`
}

// Credentials are what an admin's calls carry to the API: the cookies it set
// at login and, if it returned one, a bearer token. The zero value is an
// anonymous caller.
type Credentials struct {
	Cookies []Cookie `json:"c,omitempty"`
	Token   string   `json:"t,omitempty"`
}

// Empty reports whether no credentials are held.
func (c Credentials) Empty() bool { return len(c.Cookies) == 0 && c.Token == "" }

// Encode serialises c for storage in the admin's session.
func (c Credentials) Encode() string {
	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(b)
}

// DecodeCredentials reverses Encode. Invalid input yields empty credentials.
func DecodeCredentials(s string) Credentials {
	var c Credentials
	if s == "" || json.Unmarshal([]byte(s), &c) != nil {
		return Credentials{}
	}
	return c
}

func (c Credentials) apply(req *http.Request) {
	for _, ck := range c.Cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func credentialsFrom(cookies []*http.Cookie, token string) Credentials {
	c := Credentials{Token: token}
	for _, ck := range cookies {
		if ck.MaxAge < 0 || ck.Value == "" {
			continue
		}
		c.Cookies = append(c.Cookies, Cookie{Name: ck.Name, Value: ck.Value})
	}
	return c
}
