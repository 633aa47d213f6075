package wiki

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/innverse/twistats/pkg/scrape"
)

const (
	DefaultBaseURL = "https://wiki.wanderinginn.com"
	apiPath        = "/api.php"
)

// Client reads pages and categories through the MediaWiki action API.
// It downloads through a scrape.Session so wiki traffic gets the same
// throttling and retry budget as chapter downloads.
type Client struct {
	session *scrape.Session
	baseURL string
}

func NewClient(session *scrape.Session, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{session: session, baseURL: strings.TrimRight(baseURL, "/")}
}

// PageRef names one wiki page.
type PageRef struct {
	PageID int    `json:"pageid"`
	Title  string `json:"title"`
}

type categoryMembersResponse struct {
	Continue struct {
		CmContinue string `json:"cmcontinue"`
	} `json:"continue"`
	Query struct {
		CategoryMembers []PageRef `json:"categorymembers"`
	} `json:"query"`
}

// CategoryMembers lists every page in the named category, following
// API continuation.
func (c *Client) CategoryMembers(category string) ([]PageRef, error) {
	var (
		members []PageRef
		cont    string
	)

	for {
		params := url.Values{
			"action":  {"query"},
			"list":    {"categorymembers"},
			"cmtitle": {"Category:" + category},
			"cmlimit": {"500"},
			"format":  {"json"},
		}
		if cont != "" {
			params.Set("cmcontinue", cont)
		}

		resp, err := c.session.Get(c.baseURL + apiPath + "?" + params.Encode())
		if err != nil {
			return nil, errors.Wrapf(err, "listing category %q", category)
		}

		var decoded categoryMembersResponse
		if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
			return nil, errors.Wrapf(err, "decoding category %q response", category)
		}

		members = append(members, decoded.Query.CategoryMembers...)

		cont = decoded.Continue.CmContinue
		if cont == "" {
			return members, nil
		}
	}
}

type parseResponse struct {
	Parse struct {
		Title    string `json:"title"`
		Wikitext string `json:"wikitext"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// PageWikitext fetches the raw wikitext of one page.
func (c *Client) PageWikitext(title string) (string, error) {
	params := url.Values{
		"action":        {"parse"},
		"page":          {title},
		"prop":          {"wikitext"},
		"format":        {"json"},
		"formatversion": {"2"},
	}

	resp, err := c.session.Get(c.baseURL + apiPath + "?" + params.Encode())
	if err != nil {
		return "", errors.Wrapf(err, "fetching page %q", title)
	}

	var decoded parseResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return "", errors.Wrapf(err, "decoding page %q response", title)
	}
	if decoded.Error != nil {
		return "", errors.Errorf("wiki error for page %q: %s: %s",
			title, decoded.Error.Code, decoded.Error.Info)
	}

	return decoded.Parse.Wikitext, nil
}

// PageURL is the canonical browser URL for a page title.
func (c *Client) PageURL(title string) string {
	return c.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// ExtractTemplateParams finds the first {{name ...}} template in the
// wikitext and returns its raw parameters, one "key=value" string per
// parameter. Nested templates and [[links]] inside a parameter do not
// split it.
func ExtractTemplateParams(wikitext, name string) ([]string, bool) {
	lowered := strings.ToLower(wikitext)
	needle := "{{" + strings.ToLower(name)

	start := -1
	for i := 0; i+len(needle) <= len(lowered); i++ {
		candidate := strings.ReplaceAll(lowered[i:i+len(needle)], "_", " ")
		if candidate == strings.ReplaceAll(needle, "_", " ") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	var (
		params     []string
		current    strings.Builder
		braceDepth = 0
		linkDepth  = 0
		begun      = false
	)

	flush := func() {
		if p := strings.TrimSpace(current.String()); p != "" {
			params = append(params, p)
		}
		current.Reset()
	}

	for i := start; i < len(wikitext); i++ {
		switch {
		case strings.HasPrefix(wikitext[i:], "{{"):
			braceDepth++
			if braceDepth > 1 {
				current.WriteString("{{")
			}
			i++

		case strings.HasPrefix(wikitext[i:], "}}"):
			braceDepth--
			if braceDepth == 0 {
				if begun {
					flush()
				}
				return params, true
			}
			current.WriteString("}}")
			i++

		case strings.HasPrefix(wikitext[i:], "[["):
			linkDepth++
			current.WriteString("[[")
			i++

		case strings.HasPrefix(wikitext[i:], "]]"):
			if linkDepth > 0 {
				linkDepth--
			}
			current.WriteString("]]")
			i++

		case wikitext[i] == '|' && braceDepth == 1 && linkDepth == 0:
			if !begun {
				// Text before the first '|' is the template name.
				begun = true
				current.Reset()
			} else {
				flush()
			}

		default:
			current.WriteByte(wikitext[i])
		}
	}

	return params, false
}
