package user

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dragonrex/sdash/lib/config"
	"github.com/dragonrex/sdash/lib/db"
	log "github.com/sirupsen/logrus"
)

// namespace is the logical users table/collection, independent of backend.
const namespace = "users"

// --------------------------------------------------------------------------
// User Directory
// --------------------------------------------------------------------------

// User is one stored credential pair. The base read path only carries
// username and password; extended attributes exist at creation time only.
type User struct {
	Username string
	Password string
}

// Directory owns the users namespace on top of a store binding: it
// provisions the namespace, seeds the configured default accounts when it
// is empty, authenticates credentials and maintains an in-memory read
// cache of all stored users.
//
// Backend errors never escape the directory. Every method logs failures
// and reports a boolean or empty outcome to its callers.
type Directory struct {
	binding *db.Binding
	cfg     *config.App

	mu    sync.RWMutex
	users []User
}

// NewDirectory creates the directory, ensures the namespace exists, seeds
// it if empty and loads the read cache.
func NewDirectory(binding *db.Binding, cfg *config.App) *Directory {
	d := &Directory{binding: binding, cfg: cfg}
	d.provision()
	d.LoadAll()
	return d
}

// Users returns a snapshot of the cached (username, password) pairs.
func (d *Directory) Users() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	users := make([]User, len(d.users))
	copy(users, d.users)
	return users
}

// Authenticate checks the stored credentials for an exact match. The
// comparison is plaintext equality, preserved from the dashboard's
// observed behavior; production deployments need a salted-hash comparison
// here.
func (d *Directory) Authenticate(username, password string) bool {
	if d.binding.Document() {
		result, err := d.binding.Query(namespace, "username:"+username, "password:"+password)
		if err != nil {
			log.WithError(err).Error("user authentication query failed")
			return false
		}
		defer result.Close()
		return result.Next()
	}

	result, err := d.binding.Query(
		"SELECT COUNT(*) as count FROM users WHERE username = ? AND password = ?",
		username, password,
	)
	if err != nil {
		log.WithError(err).Error("user authentication query failed")
		return false
	}
	defer result.Close()

	return result.Next() && result.GetInt("count") > 0
}

// Add inserts a new (username, password) pair. It returns false if the
// username already exists or the backend rejects the insert; the cache is
// reloaded on success.
func (d *Directory) Add(username, password string) bool {
	if d.binding.Document() {
		return d.addDocument(username, password, "", "user", nil)
	}

	if d.exists(username) {
		return false
	}

	result, err := d.binding.Update(
		"INSERT INTO users (username, password) VALUES (?, ?)",
		username, password,
	)
	if err != nil {
		log.WithError(err).WithField("username", username).Error("failed to add user")
		return false
	}
	result.Close()

	d.LoadAll()
	return true
}

// AddWithDetails inserts a new account with email and role. Passwords
// shorter than the configured minimum are rejected before any backend
// round-trip.
func (d *Directory) AddWithDetails(username, password, email, role string) bool {
	if len(password) < d.cfg.PasswordMinLength {
		log.WithField("username", username).Warnf("password below minimum length of %d", d.cfg.PasswordMinLength)
		return false
	}

	if d.binding.Document() {
		return d.addDocument(username, password, email, role, nil)
	}

	if d.exists(username) {
		log.WithField("username", username).Info("user already exists")
		return false
	}

	result, err := d.binding.Update(
		"INSERT INTO users (username, password, email, role) VALUES (?, ?, ?, ?)",
		username, password, email, role,
	)
	if err != nil {
		log.WithError(err).WithField("username", username).Error("failed to add user")
		return false
	}
	result.Close()

	d.LoadAll()
	log.WithFields(log.Fields{"username": username, "role": role}).Info("user added")
	return true
}

// Remove deletes the user by username and reloads the cache.
func (d *Directory) Remove(username string) bool {
	var err error
	var result *db.Result

	if d.binding.Document() {
		result, err = d.binding.Update(namespace, "DELETE", "{}", "username:"+username)
	} else {
		result, err = d.binding.Update("DELETE FROM users WHERE username = ?", username)
	}
	if err != nil {
		log.WithError(err).WithField("username", username).Error("failed to remove user")
		return false
	}
	result.Close()

	d.LoadAll()
	return true
}

// LoadAll refreshes the in-memory read cache. The new list is built first
// and swapped in atomically, so a mid-reload failure leaves the previous
// cache visible.
func (d *Directory) LoadAll() {
	var loaded []User
	var result *db.Result
	var err error

	if d.binding.Document() {
		result, err = d.binding.Query(namespace)
	} else {
		result, err = d.binding.Query("SELECT username, password FROM users")
	}
	if err != nil {
		log.WithError(err).Error("failed to load users, keeping previous cache")
		return
	}
	defer result.Close()

	for result.Next() {
		loaded = append(loaded, User{
			Username: result.GetString("username"),
			Password: result.GetString("password"),
		})
	}

	d.mu.Lock()
	d.users = loaded
	d.mu.Unlock()
}

// --------------------------------------------------------------------------
// Provisioning and Seeding
// --------------------------------------------------------------------------

// provision ensures the namespace exists and seeds it if empty. The
// document store needs no schema step, only the emptiness check.
func (d *Directory) provision() {
	if d.binding.Document() {
		d.provisionDocuments()
		return
	}

	result, err := d.binding.Update(createTableSQL(d.binding.Name()))
	if err != nil {
		log.WithError(err).Error("failed to create users table")
	} else {
		result.Close()
	}

	countResult, err := d.binding.Query("SELECT COUNT(*) as count FROM users")
	if err != nil {
		log.WithError(err).Error("failed to count users")
		return
	}
	defer countResult.Close()

	if countResult.Next() && countResult.GetInt("count") == 0 {
		d.seed()
	}
}

func (d *Directory) provisionDocuments() {
	result, err := d.binding.Query(namespace)
	if err != nil {
		// Emptiness unknown, try seeding anyway: duplicates are rejected
		// per account.
		log.WithError(err).Error("failed to inspect users collection")
		d.seed()
		return
	}
	defer result.Close()

	count := 0
	for result.Next() {
		count++
	}
	if count == 0 {
		d.seed()
	} else {
		log.WithField("count", count).Info("users collection already populated")
	}
}

// seed populates the empty namespace from configuration: the
// administrative account first, then the default accounts. Accounts are
// seeded independently; one failure does not abort the rest.
func (d *Directory) seed() {
	if d.cfg.Admin.Username == "" {
		// No configured accounts at all, fall back to bare defaults.
		d.Add("admin", "admin")
		d.Add("user", "user")
		return
	}

	accounts := append([]config.Account{d.cfg.Admin}, d.cfg.DefaultUsers...)
	for _, account := range accounts {
		var ok bool
		if d.binding.Document() {
			ok = d.addDocument(account.Username, account.Password, account.Email, account.Role, account.Permissions)
		} else {
			ok = d.AddWithDetails(account.Username, account.Password, account.Email, account.Role)
		}
		if ok {
			log.WithFields(log.Fields{"username": account.Username, "role": account.Role}).Info("seeded account")
		} else {
			log.WithField("username", account.Username).Warn("failed to seed account")
		}
	}
}

// --------------------------------------------------------------------------
// Backend-specific helpers
// --------------------------------------------------------------------------

// exists reports whether a username is present (relational backends).
func (d *Directory) exists(username string) bool {
	result, err := d.binding.Query("SELECT COUNT(*) as count FROM users WHERE username = ?", username)
	if err != nil {
		log.WithError(err).WithField("username", username).Error("user existence check failed")
		// Treat an unreadable backend as "exists" so no insert is attempted.
		return true
	}
	defer result.Close()
	return result.Next() && result.GetInt("count") > 0
}

// addDocument inserts a user document with the full attribute set.
func (d *Directory) addDocument(username, password, email, role string, permissions []string) bool {
	checkResult, err := d.binding.Query(namespace, "username:"+username)
	if err != nil {
		log.WithError(err).WithField("username", username).Error("user existence check failed")
		return false
	}
	exists := checkResult.Next()
	checkResult.Close()
	if exists {
		log.WithField("username", username).Info("user already exists")
		return false
	}

	if permissions == nil {
		permissions = []string{}
	}
	document, err := json.Marshal(map[string]any{
		"username":    username,
		"password":    password,
		"email":       email,
		"role":        role,
		"permissions": permissions,
		"created_at":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.WithError(err).WithField("username", username).Error("failed to serialize user document")
		return false
	}

	result, err := d.binding.Update(namespace, "INSERT", string(document))
	if err != nil {
		log.WithError(err).WithField("username", username).Error("failed to add user")
		return false
	}
	result.Close()

	d.LoadAll()
	log.WithFields(log.Fields{"username": username, "role": role}).Info("user added")
	return true
}

// createTableSQL returns the users DDL in the dialect of the given backend
// label.
func createTableSQL(backend string) string {
	id := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	switch backend {
	case "MySQL", "MariaDB":
		id = "id INT AUTO_INCREMENT PRIMARY KEY"
	case "PostgreSQL":
		id = "id SERIAL PRIMARY KEY"
	}

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
		%s,
		username VARCHAR(50) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		email VARCHAR(100),
		role VARCHAR(20) DEFAULT 'user',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`, id)
}
