package mgmt

// Application is the read-only view of a registered application held for
// the duration of one run.
type Application struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Status      string              `json:"status,omitempty"`
	Type        string              `json:"type,omitempty"`
	Owner       Owner               `json:"owner,omitempty"`
	Settings    ApplicationSettings `json:"settings,omitempty"`
	CreatedAt   int64               `json:"created_at,omitempty"`
	UpdatedAt   int64               `json:"updated_at,omitempty"`
}

// Owner identifies the primary owner of an application.
type Owner struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// ApplicationSettings carries the nested configuration of an application.
// Runtime criteria scope their queries by the application id, not the
// client id, but the client id is still surfaced in detail views.
type ApplicationSettings struct {
	App   *SimpleSettings `json:"app,omitempty"`
	OAuth *OAuthSettings  `json:"oauth,omitempty"`
}

// SimpleSettings is the settings block of a simple (API key) application.
type SimpleSettings struct {
	ClientID string `json:"client_id,omitempty"`
	Type     string `json:"type,omitempty"`
}

// OAuthSettings is the settings block of an OAuth-registered application.
type OAuthSettings struct {
	ClientID     string   `json:"client_id,omitempty"`
	GrantTypes   []string `json:"grant_types,omitempty"`
	RedirectURIs []string `json:"redirect_uris,omitempty"`
}

// ClientID returns the nested client identifier regardless of the
// application's registration type.
func (a Application) ClientID() string {
	if a.Settings.App != nil && a.Settings.App.ClientID != "" {
		return a.Settings.App.ClientID
	}
	if a.Settings.OAuth != nil {
		return a.Settings.OAuth.ClientID
	}
	return ""
}

// ApplicationPage is one page of a paginated application listing.
type ApplicationPage struct {
	Data []Application `json:"data"`
	Page PageInfo      `json:"page"`
}

// PageInfo describes the position of a page within a listing.
type PageInfo struct {
	Current       int `json:"current"`
	Size          int `json:"size"`
	TotalPages    int `json:"total_pages"`
	TotalElements int `json:"total_elements"`
}

// Subscription links an application to an API plan.
type Subscription struct {
	ID       string `json:"id"`
	API      string `json:"api"`
	Plan     string `json:"plan"`
	Status   string `json:"status"`
	Security string `json:"security,omitempty"`
}
