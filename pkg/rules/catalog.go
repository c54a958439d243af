package rules

// Catalog is a mutable, ordered collection of detection rules. Mutation is
// a configuration-time operation: an Engine built over a catalog must be
// recompiled after any add or remove before the next analyze call. Each
// Catalog is independently owned, so engines with different rule sets can
// coexist.
type Catalog struct {
	rules []DetectionRule
}

// NewCatalog creates a catalog holding the given rules.
func NewCatalog(rules ...DetectionRule) *Catalog {
	return &Catalog{rules: rules}
}

// DefaultCatalog returns the built-in security rule set covering
// authentication, web, network, file access, malware, and exfiltration
// threats.
func DefaultCatalog() *Catalog {
	return NewCatalog(builtinRules()...)
}

// Rules returns the rules in catalog order. The returned slice is shared;
// callers must not mutate it.
func (c *Catalog) Rules() []DetectionRule {
	return c.rules
}

// Len returns the number of rules in the catalog.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Add appends a rule to the catalog.
func (c *Catalog) Add(rule DetectionRule) {
	c.rules = append(c.rules, rule)
}

// Remove deletes every rule with the given name.
func (c *Catalog) Remove(name string) {
	kept := c.rules[:0]
	for _, r := range c.rules {
		if r.Name != name {
			kept = append(kept, r)
		}
	}
	c.rules = kept
}

// ByName returns the first rule with the given name.
func (c *Catalog) ByName(name string) (DetectionRule, bool) {
	for _, r := range c.rules {
		if r.Name == name {
			return r, true
		}
	}
	return DetectionRule{}, false
}

// ByCategory returns all rules in the given category.
func (c *Catalog) ByCategory(category string) []DetectionRule {
	var out []DetectionRule
	for _, r := range c.rules {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// BySeverity returns all rules with the given severity.
func (c *Catalog) BySeverity(severity Severity) []DetectionRule {
	var out []DetectionRule
	for _, r := range c.rules {
		if r.Severity == severity {
			out = append(out, r)
		}
	}
	return out
}

// Categories returns the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.rules {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return out
}

// builtinRules defines the default detection rule set.
//
// The repeated-login and credential-stuffing rules are single-line
// heuristics: they approximate repetition by matching multiple occurrences
// within one line. Genuine repetition across log lines is not observable by
// a per-line regex.
func builtinRules() []DetectionRule {
	return []DetectionRule{
		// Authentication attacks
		{
			Name:        "failed_login_attempt",
			Description: "Failed login attempt detected",
			Severity:    SeverityMedium,
			Pattern:     `(failed login|authentication failed|invalid credentials|login failed|auth.*fail)`,
			Category:    "authentication",
			Tags:        []string{"bruteforce", "authentication"},
		},
		{
			Name:        "multiple_failed_logins",
			Description: "Multiple failed login attempts from same source",
			Severity:    SeverityHigh,
			Pattern:     `(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}).*failed.*login.*(failed.*login.*){2,}`,
			Category:    "authentication",
			Tags:        []string{"bruteforce", "authentication", "repeated"},
		},
		{
			Name:        "privileged_escalation",
			Description: "Potential privilege escalation attempt",
			Severity:    SeverityHigh,
			Pattern:     `(sudo|su |runas|privilege.*escalat|become.*root)`,
			Category:    "privilege_escalation",
			Tags:        []string{"privilege_escalation", "admin"},
		},

		// Web attacks
		{
			Name:        "sql_injection",
			Description: "SQL injection attempt detected",
			Severity:    SeverityHigh,
			Pattern:     `('.*(union|select|insert|delete|drop|alter|exec|script).*'|'.*or.*1.*=.*1|'.*and.*1.*=.*1|(union|select|insert|delete|drop|alter).*from)`,
			Category:    "web_attack",
			Tags:        []string{"sqli", "injection", "web"},
		},
		{
			Name:        "xss_attempt",
			Description: "Cross-Site Scripting (XSS) attempt",
			Severity:    SeverityHigh,
			Pattern:     `(<script|javascript:|onload=|onerror=|<iframe|eval\(|document\.cookie)`,
			Category:    "web_attack",
			Tags:        []string{"xss", "injection", "web"},
		},
		{
			Name:        "lfi_rfi_attempt",
			Description: "Local/Remote File Inclusion attempt",
			Severity:    SeverityHigh,
			Pattern:     `(\.\./|\.\.\\|/etc/passwd|/etc/shadow|/windows/system32|\\windows\\system32|php://|file://|http://.*\?.*=http)`,
			Category:    "web_attack",
			Tags:        []string{"lfi", "rfi", "file_inclusion"},
		},
		{
			Name:        "command_injection",
			Description: "Command injection attempt",
			Severity:    SeverityCritical,
			Pattern:     `(;|\||&|` + "`" + `|\$\(|%0a|%0d|%3b|%7c)(cat |ls |id |whoami |nc |netcat |wget |curl |python |perl |bash |sh )`,
			Category:    "web_attack",
			Tags:        []string{"command_injection", "rce"},
		},
		{
			Name:        "directory_traversal",
			Description: "Directory traversal attempt",
			Severity:    SeverityHigh,
			Pattern:     `(\.\./|\.\.\\|%2e%2e%2f|%2e%2e%5c|\\\.\.\\)`,
			Category:    "web_attack",
			Tags:        []string{"directory_traversal", "path_traversal"},
		},

		// Network attacks
		{
			Name:        "port_scan",
			Description: "Port scanning activity detected",
			Severity:    SeverityMedium,
			Pattern:     `(nmap|masscan|zmap|port.*scan|connection.*refused.*(\d+\.\d+\.\d+\.\d+).*){3,}`,
			Category:    "network_attack",
			Tags:        []string{"port_scan", "reconnaissance"},
		},
		{
			Name:        "suspicious_user_agent",
			Description: "Suspicious user agent detected",
			Severity:    SeverityMedium,
			Pattern:     `user.agent.*(sqlmap|nikto|nmap|burp|dirb|gobuster|wfuzz|hydra|medusa)`,
			Category:    "network_attack",
			Tags:        []string{"suspicious_ua", "scanning"},
		},
		{
			Name:        "dns_tunneling",
			Description: "Potential DNS tunneling",
			Severity:    SeverityHigh,
			Pattern:     `[a-f0-9]{20,}\..*\.(com|net|org)`,
			Category:    "network_attack",
			Tags:        []string{"dns_tunneling", "exfiltration"},
		},

		// File access
		{
			Name:        "suspicious_file_access",
			Description: "Access to suspicious files",
			Severity:    SeverityHigh,
			Pattern:     `(/etc/passwd|/etc/shadow|/windows/system32/sam|\.ssh/id_rsa|\.aws/credentials)`,
			Category:    "file_access",
			Tags:        []string{"sensitive_files", "credential_access"},
		},

		// Malware and suspicious activity
		{
			Name:        "crypto_mining",
			Description: "Cryptocurrency mining activity",
			Severity:    SeverityMedium,
			Pattern:     `(stratum\+tcp|pool\..*\.com|xmrig|ccminer|cryptonight|monero|bitcoin|ethereum)`,
			Category:    "malware",
			Tags:        []string{"cryptomining", "malware"},
		},
		{
			Name:        "reverse_shell",
			Description: "Reverse shell attempt",
			Severity:    SeverityCritical,
			Pattern:     `(nc.*-e|/bin/sh|/bin/bash.*-i|python.*socket.*exec|perl.*socket)`,
			Category:    "malware",
			Tags:        []string{"reverse_shell", "backdoor"},
		},

		// Data exfiltration
		{
			Name:        "data_exfiltration",
			Description: "Potential data exfiltration",
			Severity:    SeverityHigh,
			Pattern:     `(wget|curl|scp|rsync|ftp).*-O.*\.(sql|db|backup|dump|csv|xlsx?)`,
			Category:    "data_exfiltration",
			Tags:        []string{"exfiltration", "data_theft"},
		},
		{
			Name:        "large_data_transfer",
			Description: "Large data transfer detected",
			Severity:    SeverityMedium,
			Pattern:     `(POST|PUT).*content-length:\s*([1-9]\d{7,})`,
			Category:    "data_exfiltration",
			Tags:        []string{"large_transfer", "exfiltration"},
		},

		// Error conditions that might indicate attacks
		{
			Name:        "http_error_spike",
			Description: "HTTP error response (potential attack)",
			Severity:    SeverityLow,
			Pattern:     `HTTP/1\.[01].*[45]\d{2}`,
			Category:    "web_error",
			Tags:        []string{"http_error", "web"},
		},

		// Credential stuffing
		{
			Name:        "credential_stuffing",
			Description: "Credential stuffing attack",
			Severity:    SeverityHigh,
			Pattern:     `(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}).*POST.*/login.*(POST.*/login.*){5,}`,
			Category:    "authentication",
			Tags:        []string{"credential_stuffing", "bruteforce"},
		},
	}
}
