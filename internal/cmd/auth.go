package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/willfong/bankfront/internal/api"
	"github.com/willfong/bankfront/internal/guard"
	"github.com/willfong/bankfront/internal/models"
	"github.com/willfong/bankfront/internal/session"
)

var (
	loginPhone    string
	loginUsername string
	loginAdmin    bool
)

var errNotAdministrator = errors.New("该账号不是管理员账号")

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a customer or administrator",
	Long: `Sign in with a phone number or username. The password is read from the
terminal without echo.

Example:
  bankfront login --phone 13800000000
  bankfront login --admin --username admin`,
	Annotations: surface(surfacePublic),
	Args:        cobra.NoArgs,
	RunE:        runLogin,
}

var logoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Sign out and forget the saved session",
	Annotations: surface(surfacePublic),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wasSignedIn := app.Session.Current().IsSignedIn()
		app.Session.Logout(cmd.Context())
		if wasSignedIn {
			app.UI.Println(app.UI.Success("已退出登录"))
		} else {
			app.UI.Println(app.UI.Muted("当前未登录"))
		}
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:         "whoami",
	Short:       "Show the signed-in user",
	Annotations: surface(surfaceCustomer),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Session.RefreshProfile(cmd.Context()); err != nil {
			if api.ClassifyError(err) == api.ErrorTypeExpired {
				return err
			}
			app.UI.Println(app.UI.Warning("无法刷新用户信息：" + api.UserMessage(err)))
		}

		p := app.Session.Current()
		u := app.UI
		u.Println(u.Header("当前用户"))
		u.Println(u.KeyValue("用户ID", strconv.FormatInt(p.UserID, 10)))
		u.Println(u.KeyValue("用户名", p.Username))
		u.Println(u.KeyValue("姓名", p.DisplayName))
		u.Println(u.KeyValue("角色", roleLabel(p.IsAdministrator())))
		if p.LastLoginTime != "" {
			u.Println(u.KeyValue("上次登录", p.LastLoginTime))
		}
		if !p.TokenExpiry.IsZero() {
			u.Println(u.KeyValue("登录有效期至", p.TokenExpiry.Local().Format("2006-01-02 15:04:05")))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVar(&loginPhone, "phone", "", "sign in with a phone number")
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "sign in with a username")
	loginCmd.Flags().BoolVar(&loginAdmin, "admin", false, "sign in to the administrator console")
	loginCmd.MarkFlagsMutuallyExclusive("phone", "username")
}

func roleLabel(admin bool) string {
	if admin {
		return "管理员"
	}
	return "客户"
}

func runLogin(cmd *cobra.Command, args []string) error {
	u := app.UI
	creds := api.Credentials{Type: api.LoginByPhone, Identifier: loginPhone}
	if loginUsername != "" {
		creds = api.Credentials{Type: api.LoginByUsername, Identifier: loginUsername}
	}

	if creds.Identifier == "" {
		label := "手机号"
		if loginAdmin {
			creds.Type = api.LoginByUsername
			label = "用户名"
		}
		id, err := u.Prompt(label, "")
		if err != nil {
			return err
		}
		creds.Identifier = id
	}

	password, err := u.Password("登录密码")
	if err != nil {
		return err
	}
	creds.Password = password

	var p models.Principal
	if loginAdmin {
		p, err = app.Session.LoginAs(cmd.Context(), creds, models.KindAdministrator)
		if errors.Is(err, session.ErrKindMismatch) {
			return errNotAdministrator
		}
	} else {
		p, err = app.Session.Login(cmd.Context(), creds)
	}
	if err != nil {
		return err
	}

	u.Println(u.Success(fmt.Sprintf("登录成功，欢迎 %s（%s）", p.DisplayName, roleLabel(p.IsAdministrator()))))
	u.Println(u.Muted("下一步：" + loginCommand(guard.Landing(p.Kind))))
	return nil
}
