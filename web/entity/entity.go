// Package entity defines data structures shared by the web layer of the portal.
package entity

import (
	"crypto/tls"
	"math"
	"net"
	"strings"
	"time"

	"dtportal/util/common"
)

// Msg represents a standard AJAX response with success status, message text,
// and optional data object.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// AllSetting contains all runtime-changeable configuration of the portal.
type AllSetting struct {
	// Web server settings
	WebListen     string `json:"webListen" form:"webListen"`
	WebDomain     string `json:"webDomain" form:"webDomain"`
	WebPort       int    `json:"webPort" form:"webPort"`
	WebCertFile   string `json:"webCertFile" form:"webCertFile"`
	WebKeyFile    string `json:"webKeyFile" form:"webKeyFile"`
	WebBasePath   string `json:"webBasePath" form:"webBasePath"`
	SessionMaxAge int    `json:"sessionMaxAge" form:"sessionMaxAge"` // minutes
	SecureCookie  bool   `json:"secureCookie" form:"secureCookie"`   // set the Secure flag on the session cookie

	// Site identity
	SiteName string `json:"siteName" form:"siteName"`
	SiteURL  string `json:"siteURL" form:"siteURL"`

	// Upload policy
	UploadFolder string `json:"uploadFolder" form:"uploadFolder"`
	UploadMaxMB  int    `json:"uploadMaxMB" form:"uploadMaxMB"`

	// UI settings
	PageSize   int    `json:"pageSize" form:"pageSize"`
	Datepicker string `json:"datepicker" form:"datepicker"`

	// Email notifications (delivery itself is out of scope; flag only)
	EmailEnable bool `json:"emailEnable" form:"emailEnable"`

	// Login throttling
	LoginLimitEnable   bool `json:"loginLimitEnable" form:"loginLimitEnable"`
	LoginLimitAttempts int  `json:"loginLimitAttempts" form:"loginLimitAttempts"`
	LoginLimitWindow   int  `json:"loginLimitWindow" form:"loginLimitWindow"`     // minutes
	LoginLimitCooldown int  `json:"loginLimitCooldown" form:"loginLimitCooldown"` // minutes

	// Telegram bot settings
	TgBotEnable      bool   `json:"tgBotEnable" form:"tgBotEnable"`
	TgBotToken       string `json:"tgBotToken" form:"tgBotToken"`
	TgBotChatId      string `json:"tgBotChatId" form:"tgBotChatId"`
	TgRunTime        string `json:"tgRunTime" form:"tgRunTime"`
	TgBotLoginNotify bool   `json:"tgBotLoginNotify" form:"tgBotLoginNotify"`
	TgLang           string `json:"tgLang" form:"tgLang"`

	// Security settings
	TimeLocation    string `json:"timeLocation" form:"timeLocation"`
	TwoFactorEnable bool   `json:"twoFactorEnable" form:"twoFactorEnable"`
	TwoFactorToken  string `json:"twoFactorToken" form:"twoFactorToken"`
}

// CheckValid validates the settings, normalizing the base path in place.
func (s *AllSetting) CheckValid() error {
	if s.WebListen != "" {
		ip := net.ParseIP(s.WebListen)
		if ip == nil {
			return common.NewError("web listen is not valid ip:", s.WebListen)
		}
	}

	if s.WebPort <= 0 || s.WebPort > math.MaxUint16 {
		return common.NewError("web port is not a valid port:", s.WebPort)
	}

	if s.WebCertFile != "" || s.WebKeyFile != "" {
		_, err := tls.LoadX509KeyPair(s.WebCertFile, s.WebKeyFile)
		if err != nil {
			return common.NewErrorf("cert file <%v> or key file <%v> invalid: %v", s.WebCertFile, s.WebKeyFile, err)
		}
	}

	if !strings.HasPrefix(s.WebBasePath, "/") {
		s.WebBasePath = "/" + s.WebBasePath
	}
	if !strings.HasSuffix(s.WebBasePath, "/") {
		s.WebBasePath += "/"
	}

	if s.SessionMaxAge <= 0 {
		return common.NewError("session max age must be positive:", s.SessionMaxAge)
	}

	if s.UploadMaxMB <= 0 {
		return common.NewError("upload max size must be positive:", s.UploadMaxMB)
	}

	_, err := time.LoadLocation(s.TimeLocation)
	if err != nil {
		return common.NewError("time location not exist:", s.TimeLocation)
	}

	return nil
}
