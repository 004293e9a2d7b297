package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/jessevdk/go-flags"

	"github.com/dtroode/gophkeeper-vault/internal/crypto"
	"github.com/dtroode/gophkeeper-vault/internal/model"
	"github.com/dtroode/gophkeeper-vault/internal/vault"
)

// Options are the global flags.
type Options struct {
	Version bool `short:"V" long:"version" description:"Print version and exit"`
}

// NewParser builds the command line parser for app.
func NewParser(app *App, opts *Options) *flags.Parser {
	parser := flags.NewNamedParser("vault", flags.Default)
	parser.SubcommandsOptional = true
	_, _ = parser.AddGroup("Application Options", "", opts)

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"init", "Create a new vault", "Create a new vault protected by a master passphrase.", &initCommand{app: app}},
		{"add", "Add a record", "Add a credential record. The password is read from the terminal unless --generate is set.", &addCommand{app: app}},
		{"list", "List records", "List records without their passwords.", &listCommand{app: app}},
		{"get", "Show a record", "Show a record including its password.", &getCommand{app: app}},
		{"update", "Update a record", "Update the given fields of a record.", &updateCommand{app: app}},
		{"delete", "Delete a record", "Delete a record.", &deleteCommand{app: app}},
		{"generate", "Generate a password", "Generate a random password or diceware passphrase.", &generateCommand{app: app}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			panic(err)
		}
	}

	return parser
}

type initCommand struct {
	app *App
}

func (c *initCommand) Execute(_ []string) error {
	engine, err := c.app.vaultEngine()
	if err != nil {
		return err
	}

	passphrase, err := c.app.readSecret("New master passphrase: ")
	if err != nil {
		return err
	}
	confirm, err := c.app.readSecret("Repeat master passphrase: ")
	if err != nil {
		return err
	}
	if passphrase != confirm {
		return errors.New("passphrases do not match")
	}

	if _, err := engine.Bootstrap(c.app.ctx, passphrase); err != nil {
		return describe(err)
	}

	fmt.Fprintln(c.app.out, "vault created")
	return nil
}

type recordFlags struct {
	Service  string `short:"s" long:"service" description:"Service name"`
	Email    string `short:"e" long:"email" description:"Email address"`
	Username string `short:"u" long:"username" description:"User name"`
	Notes    string `short:"n" long:"notes" description:"Free form notes"`
	Generate bool   `short:"g" long:"generate" description:"Generate a random password"`
	Length   int    `short:"l" long:"length" default:"32" description:"Length of a generated password"`
}

func (f recordFlags) password(app *App) (string, error) {
	if f.Generate {
		return crypto.GeneratePassword(f.Length)
	}
	return app.readSecret("Record password: ")
}

type addCommand struct {
	app *App
	recordFlags
}

func (c *addCommand) Execute(_ []string) error {
	if c.Service == "" {
		return errors.New("the --service flag is required")
	}

	return c.app.withSession(func(s *vault.Session) error {
		password, err := c.password(c.app)
		if err != nil {
			return err
		}

		id, err := s.CreateRecord(c.app.ctx, model.Credential{
			Service:  c.Service,
			Email:    c.Email,
			Username: c.Username,
			Password: password,
			Notes:    c.Notes,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(c.app.out, "created record %d\n", id)
		return nil
	})
}

type listCommand struct {
	app *App
}

func (c *listCommand) Execute(_ []string) error {
	return c.app.withSession(func(s *vault.Session) error {
		results, err := s.ListRecords(c.app.ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(c.app.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSERVICE\tEMAIL\tUSERNAME\tSTATUS")
		for _, r := range results {
			status := "ok"
			if r.Err != nil {
				status = "unreadable"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				r.Credential.ID, r.Credential.Service, r.Credential.Email, r.Credential.Username, status)
		}
		return w.Flush()
	})
}

type idArgs struct {
	ID int64 `positional-arg-name:"id" required:"yes"`
}

type getCommand struct {
	app  *App
	Args idArgs `positional-args:"yes"`
}

func (c *getCommand) Execute(_ []string) error {
	return c.app.withSession(func(s *vault.Session) error {
		r, err := s.ReadRecord(c.app.ctx, c.Args.ID)
		if err != nil {
			return notFound(err, c.Args.ID)
		}

		fmt.Fprintf(c.app.out, "id:       %d\n", r.ID)
		fmt.Fprintf(c.app.out, "service:  %s\n", r.Service)
		fmt.Fprintf(c.app.out, "email:    %s\n", r.Email)
		fmt.Fprintf(c.app.out, "username: %s\n", r.Username)
		fmt.Fprintf(c.app.out, "password: %s\n", r.Password)
		fmt.Fprintf(c.app.out, "notes:    %s\n", r.Notes)
		return nil
	})
}

type updateCommand struct {
	app *App
	recordFlags
	NewPassword bool   `short:"p" long:"password" description:"Read a new password from the terminal"`
	Args        idArgs `positional-args:"yes"`
}

func (c *updateCommand) Execute(_ []string) error {
	replacePassword := c.Generate || c.NewPassword

	return c.app.withSession(func(s *vault.Session) error {
		r, err := s.ReadRecord(c.app.ctx, c.Args.ID)
		// A password that no longer decrypts can still be replaced.
		if err != nil && !(replacePassword && errors.Is(err, vault.ErrDecryptionFailed)) {
			return notFound(err, c.Args.ID)
		}

		if c.Service != "" {
			r.Service = c.Service
		}
		if c.Email != "" {
			r.Email = c.Email
		}
		if c.Username != "" {
			r.Username = c.Username
		}
		if c.Notes != "" {
			r.Notes = c.Notes
		}
		if replacePassword {
			if r.Password, err = c.password(c.app); err != nil {
				return err
			}
		}

		if err := s.UpdateRecord(c.app.ctx, c.Args.ID, r); err != nil {
			return notFound(err, c.Args.ID)
		}

		fmt.Fprintf(c.app.out, "updated record %d\n", c.Args.ID)
		return nil
	})
}

type deleteCommand struct {
	app  *App
	Args idArgs `positional-args:"yes"`
}

func (c *deleteCommand) Execute(_ []string) error {
	return c.app.withSession(func(s *vault.Session) error {
		if err := s.DeleteRecord(c.app.ctx, c.Args.ID); err != nil {
			return notFound(err, c.Args.ID)
		}

		fmt.Fprintf(c.app.out, "deleted record %d\n", c.Args.ID)
		return nil
	})
}

type generateCommand struct {
	app    *App
	Length int `short:"l" long:"length" default:"32" description:"Password length"`
	Words  int `short:"w" long:"words" description:"Generate a diceware passphrase with this many words instead"`
}

func (c *generateCommand) Execute(_ []string) error {
	var (
		secret string
		err    error
	)
	if c.Words > 0 {
		secret, err = crypto.GeneratePassphrase(c.Words)
	} else {
		secret, err = crypto.GeneratePassword(c.Length)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(c.app.out, secret)
	return nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("record %d not found", id)
	}
	return err
}
