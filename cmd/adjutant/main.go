/*******************************************************************************
*
* Copyright 2022 SAP SE
*
* Licensed under the Apache License, Version 2.0 (the "License");
* you may not use this file except in compliance with the License.
* You should have received a copy of the License along with this
* program. If not, you may obtain a copy of the License at
*
*     http://www.apache.org/licenses/LICENSE-2.0
*
* Unless required by applicable law or agreed to in writing, software
* distributed under the License is distributed on an "AS IS" BASIS,
* WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
* See the License for the specific language governing permissions and
* limitations under the License.
*
*******************************************************************************/

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gophercloud/gophercloud"
	"github.com/gophercloud/gophercloud/openstack"
	"github.com/gophercloud/utils/openstack/clientconfig"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/osext"

	"github.com/sapcc/go-adjutant/adjutant"
	"github.com/sapcc/go-adjutant/adjutant/notifications"
	"github.com/sapcc/go-adjutant/adjutant/quotas"
	"github.com/sapcc/go-adjutant/adjutant/tasks"
	"github.com/sapcc/go-adjutant/adjutant/tokens"
	"github.com/sapcc/go-adjutant/adjutant/users"
	"github.com/sapcc/go-adjutant/internal/quotaview"
	"github.com/sapcc/go-adjutant/internal/util"
)

func main() {
	logg.ShowDebug = osext.GetenvBool("ADJUTANT_DEBUG")
	http.DefaultTransport = util.WrapTransport(http.DefaultTransport)
	cfg := loadConfiguration()

	if len(os.Args) < 2 {
		printUsageAndExit()
	}
	noun, args := os.Args[1], os.Args[2:]

	switch noun {
	case "task":
		taskCommand(cfg, args)
	case "notification":
		notificationCommand(cfg, args)
	case "user":
		userCommand(cfg, args)
	case "token":
		tokenCommand(cfg, args)
	case "quota":
		quotaCommand(cfg, args)
	case "signup":
		signupCommand(cfg, args)
	default:
		printUsageAndExit()
	}
}

var usageMessage = strings.TrimSpace(`
Usage:
  adjutant task     list [active|approved|completed|cancelled|all] [<page>]
  adjutant task     show|approve|cancel|revalidate <task-id>
  adjutant task     update <task-id> <json>
  adjutant notification list [unacked|acked|all] [<page>]
  adjutant notification show <id>
  adjutant notification ack <id>...
  adjutant user     list
  adjutant user     show|revoke|resend-invite <user-id>
  adjutant user     invite <email> <role>...
  adjutant user     set-roles <user-id> <role>...
  adjutant user     email-update <new-email>
  adjutant user     password-reset <email> [<username>]
  adjutant token    show <token>
  adjutant token    submit <token> <json>
  adjutant token    reissue <task-id>
  adjutant quota    regions
  adjutant quota    show <region>
  adjutant quota    size <size> <region>
  adjutant quota    tasks
  adjutant quota    update <size> [<region>...]
  adjutant signup   <email> <project-name> [<username>]

Credentials are read from the usual OS_* environment variables. ADJUTANT_URL
overrides the catalog lookup of the Adjutant endpoint and is required for the
unauthenticated commands (token show/submit, password-reset, signup).
ADJUTANT_CONFIG points to an optional YAML configuration file.
`)

func printUsageAndExit() {
	fmt.Fprintln(os.Stderr, usageMessage)
	os.Exit(1)
}

// session is everything that the authenticated commands need.
type session struct {
	Client *gophercloud.ServiceClient
	// ProjectID is the project scope of the auth token; Adjutant wants it
	// spelled out in role and invitation requests.
	ProjectID string
}

func connect(cfg Configuration) session {
	ao, err := clientconfig.AuthOptions(nil)
	if err != nil {
		logg.Fatal("cannot find OpenStack credentials: %s", err.Error())
	}
	ao.AllowReauth = true
	provider, err := openstack.AuthenticatedClient(*ao)
	if err != nil {
		logg.Fatal("cannot connect to OpenStack: %s", err.Error())
	}

	projectID := ao.TenantID
	if projectID == "" {
		projectID = os.Getenv("OS_PROJECT_ID")
	}

	if cfg.Endpoint != "" {
		return session{
			Client:    adjutant.NewRegistrationV1FromEndpoint(provider, cfg.Endpoint),
			ProjectID: projectID,
		}
	}
	eo := gophercloud.EndpointOpts{
		Availability: gophercloud.Availability(os.Getenv("OS_INTERFACE")),
		Region:       os.Getenv("OS_REGION_NAME"),
	}
	client, err := adjutant.NewRegistrationV1(provider, eo)
	if err != nil {
		logg.Fatal("cannot find Adjutant endpoint in the service catalog (set ADJUTANT_URL to skip the lookup): %s", err.Error())
	}
	return session{Client: client, ProjectID: projectID}
}

func unauthenticatedClient(cfg Configuration) *gophercloud.ServiceClient {
	if cfg.Endpoint == "" {
		logg.Fatal("this command does not authenticate; set ADJUTANT_URL to the Adjutant endpoint")
	}
	return adjutant.NewUnauthenticatedClient(cfg.Endpoint)
}

func failOnError(err error) {
	if err != nil {
		logg.Fatal(err.Error())
	}
}

////////////////////////////////////////////////////////////////////////////////
// tasks

func taskCommand(cfg Configuration, args []string) {
	if len(args) < 1 {
		printUsageAndExit()
	}
	verb, args := args[0], args[1:]

	switch verb {
	case "list":
		filters := tasks.ActiveFilter
		page := 1
		if len(args) > 0 {
			switch args[0] {
			case "active":
				filters = tasks.ActiveFilter
			case "approved":
				filters = tasks.ApprovedFilter
			case "completed":
				filters = tasks.CompletedFilter
			case "cancelled":
				filters = tasks.CancelledFilter
			case "all":
				filters = nil
			default:
				printUsageAndExit()
			}
		}
		if len(args) > 1 {
			page = parsePage(args[1])
		}
		s := connect(cfg)
		result, err := tasks.ListWithFallback(s.Client, tasks.ListOpts{
			Filters: filters,
			Page:    page,
			PerPage: cfg.PageSize,
		})
		failOnError(err)
		printTaskPage(result)

	case "show":
		task, err := tasks.Get(connect(cfg).Client, singleArg(args))
		failOnError(err)
		printTask(task)

	case "approve":
		failOnError(tasks.Approve(connect(cfg).Client, singleArg(args)))
		logg.Info("task approved")

	case "cancel":
		failOnError(tasks.Cancel(connect(cfg).Client, singleArg(args)))
		logg.Info("task cancelled")

	case "revalidate":
		failOnError(tasks.Revalidate(connect(cfg).Client, singleArg(args)))
		logg.Info("task revalidated")

	case "update":
		if len(args) != 2 {
			printUsageAndExit()
		}
		failOnError(tasks.Update(connect(cfg).Client, args[0], []byte(args[1])))
		logg.Info("task updated")

	default:
		printUsageAndExit()
	}
}

func printTaskPage(page tasks.Page) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tREQUESTED BY\tPROJECT\tCREATED\tVALID\tSTATUS")
	for _, task := range page.Tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			task.ID, task.TaskType, task.RequestBy, task.RequestProject,
			task.CreatedOn, task.Valid, task.Status)
	}
	w.Flush()
	printPageFooter(page.Number, page.HasPrev, page.HasMore)
}

func printTask(task tasks.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", task.ID)
	fmt.Fprintf(w, "Type\t%s\n", task.TaskType)
	fmt.Fprintf(w, "Status\t%s\n", task.Status)
	fmt.Fprintf(w, "Valid\t%t\n", task.Valid)
	fmt.Fprintf(w, "Requested by\t%s\n", task.RequestBy)
	fmt.Fprintf(w, "Project\t%s\n", task.RequestProject)
	fmt.Fprintf(w, "Created\t%s\n", task.CreatedOn)
	fmt.Fprintf(w, "Approved\t%s\n", task.ApprovedOn)
	fmt.Fprintf(w, "Completed\t%s\n", task.CompletedOn)
	for _, action := range task.Actions {
		fmt.Fprintf(w, "Action\t%s (valid: %t)\n", action.Type, action.Valid)
	}
	w.Flush()
}

////////////////////////////////////////////////////////////////////////////////
// notifications

func notificationCommand(cfg Configuration, args []string) {
	if len(args) < 1 {
		printUsageAndExit()
	}
	verb, args := args[0], args[1:]

	switch verb {
	case "list":
		filters := notifications.UnacknowledgedFilter
		page := 1
		if len(args) > 0 {
			switch args[0] {
			case "unacked":
				filters = notifications.UnacknowledgedFilter
			case "acked":
				filters = notifications.AcknowledgedFilter
			case "all":
				filters = nil
			default:
				printUsageAndExit()
			}
		}
		if len(args) > 1 {
			page = parsePage(args[1])
		}
		s := connect(cfg)
		result, err := notifications.ListWithFallback(s.Client, notifications.ListOpts{
			Filters: filters,
			Page:    page,
			PerPage: cfg.PageSize,
		})
		failOnError(err)

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "UUID\tTASK\tCREATED\tERROR\tACKED\tNOTES")
		for _, n := range result.Notifications {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\t%s\n",
				n.UUID, n.Task, n.CreatedOn, n.Error, n.Acknowledged, n.Notes)
		}
		w.Flush()
		printPageFooter(result.Number, result.HasPrev, result.HasMore)

	case "show":
		n, err := notifications.Get(connect(cfg).Client, singleArg(args))
		failOnError(err)
		fmt.Printf("UUID:    %s\nTask:    %s\nCreated: %s\nError:   %t\nAcked:   %t\nNotes:   %s\n",
			n.UUID, n.Task, n.CreatedOn, n.Error, n.Acknowledged, n.Notes)

	case "ack":
		if len(args) == 0 {
			printUsageAndExit()
		}
		s := connect(cfg)
		if len(args) == 1 {
			failOnError(notifications.Acknowledge(s.Client, args[0]))
		} else {
			failOnError(notifications.AcknowledgeMany(s.Client, args))
		}
		logg.Info("acknowledged %d notification(s)", len(args))

	default:
		printUsageAndExit()
	}
}

////////////////////////////////////////////////////////////////////////////////
// users

func userCommand(cfg Configuration, args []string) {
	if len(args) < 1 {
		printUsageAndExit()
	}
	verb, args := args[0], args[1:]

	switch verb {
	case "list":
		page, err := users.List(connect(cfg).Client)
		failOnError(err)
		translations := cfg.roleTranslations()
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLES\tCOHORT\tSTATUS")
		for _, user := range page.Users {
			labels := make([]string, len(user.Roles))
			for idx, role := range user.Roles {
				labels[idx] = users.RoleDisplayName(translations, role)
			}
			sort.Strings(labels)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				user.ID, user.Name, user.Email, strings.Join(labels, ", "),
				user.Cohort, user.Status)
		}
		w.Flush()

	case "show":
		user, err := users.Get(connect(cfg).Client, singleArg(args))
		failOnError(err)
		fmt.Printf("ID:     %s\nName:   %s\nEmail:  %s\nRoles:  %s\nCohort: %s\nStatus: %s\n",
			user.ID, user.Name, user.Email, strings.Join(user.Roles, ", "),
			user.Cohort, user.Status)

	case "invite":
		if len(args) < 1 {
			printUsageAndExit()
		}
		s := connect(cfg)
		failOnError(users.Invite(s.Client, users.InviteOpts{
			Email:     args[0],
			ProjectID: s.ProjectID,
			Roles:     args[1:],
		}))
		logg.Info("invitation sent to %s", args[0])

	case "revoke":
		// for invited users this deletes the invitation, for active users
		// it strips all roles
		failOnError(users.Revoke(connect(cfg).Client, singleArg(args)))
		logg.Info("user revoked")

	case "resend-invite":
		failOnError(tokens.ResendInvite(connect(cfg).Client, singleArg(args)))
		logg.Info("invitation resent")

	case "set-roles":
		if len(args) < 2 {
			printUsageAndExit()
		}
		s := connect(cfg)
		err := users.SyncRoles(s.Client, args[0], users.SyncRolesOpts{
			ProjectID: s.ProjectID,
			Desired:   args[1:],
		})
		if err != nil {
			// a failed sync may have already applied its removals
			logg.Fatal("role update failed and may be partially applied: %s", err.Error())
		}
		logg.Info("roles updated")

	case "email-update":
		err := users.UpdateEmail(connect(cfg).Client, singleArg(args))
		if adjutant.IsEmailInUse(err) {
			logg.Fatal("this email address is already in use")
		}
		failOnError(err)
		logg.Info("email update started; check the new address for a confirmation token")

	case "password-reset":
		if len(args) < 1 || len(args) > 2 {
			printUsageAndExit()
		}
		opts := users.ResetPasswordOpts{Email: args[0]}
		if len(args) == 2 {
			opts.Username = args[1]
		}
		failOnError(users.ResetPassword(unauthenticatedClient(cfg), opts))
		logg.Info("password reset requested; check your email for a token")

	default:
		printUsageAndExit()
	}
}

////////////////////////////////////////////////////////////////////////////////
// tokens

func tokenCommand(cfg Configuration, args []string) {
	if len(args) < 1 {
		printUsageAndExit()
	}
	verb, args := args[0], args[1:]

	switch verb {
	case "show":
		token, err := tokens.Get(unauthenticatedClient(cfg), singleArg(args))
		failOnError(err)
		fmt.Printf("Task type:       %s\nActions:         %s\nRequired fields: %s\n",
			token.TaskType, strings.Join(token.Actions, ", "),
			strings.Join(token.RequiredFields, ", "))

	case "submit":
		if len(args) != 2 {
			printUsageAndExit()
		}
		fields, err := parseJSONObject(args[1])
		failOnError(err)
		failOnError(tokens.Submit(unauthenticatedClient(cfg), args[0], fields))
		logg.Info("token submitted")

	case "reissue":
		failOnError(tokens.Reissue(connect(cfg).Client, singleArg(args)))
		logg.Info("token reissued")

	default:
		printUsageAndExit()
	}
}

////////////////////////////////////////////////////////////////////////////////
// quotas

func quotaCommand(cfg Configuration, args []string) {
	if len(args) < 1 {
		printUsageAndExit()
	}
	verb, args := args[0], args[1:]

	switch verb {
	case "regions":
		cache := quotaview.NewCache(connect(cfg).Client)
		rows, err := quotaview.RegionOverview(cache)
		failOnError(err)
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "REGION\tCURRENT SIZE\tPREAPPROVED SIZES")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", row.Region, row.QuotaSize, row.PreapprovedSizes)
		}
		w.Flush()

	case "show":
		region := singleArg(args)
		cache := quotaview.NewCache(connect(cfg).Client)
		rows, err := quotaview.RegionDetail(cache, cfg.quotaViewConfig(), region)
		failOnError(err)
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tRESOURCE\tQUOTA\tUSAGE\tPERCENT\t")
		for _, row := range rows {
			name := row.Name
			if row.Important {
				name += " *"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				row.Service, name,
				quotaview.FormatValue(row.CurrentQuota),
				quotaview.FormatValue(row.CurrentUsage),
				row.Percent)
		}
		w.Flush()
		fmt.Println("(* = important resource)")

	case "size":
		if len(args) != 2 {
			printUsageAndExit()
		}
		cache := quotaview.NewCache(connect(cfg).Client)
		rows, err := quotaview.SizeDetail(cache, cfg.quotaViewConfig(), args[0], args[1])
		failOnError(err)
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tRESOURCE\tSIZE VALUE\tQUOTA\tUSAGE\tPERCENT")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				row.Service, row.Name,
				quotaview.FormatValue(row.Value),
				quotaview.FormatValue(row.CurrentQuota),
				quotaview.FormatValue(row.CurrentUsage),
				row.Percent)
		}
		w.Flush()

	case "tasks":
		rows, err := quotaview.QuotaTasks(connect(cfg).Client)
		failOnError(err)
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREGIONS\tSIZE\tUSER\tCREATED\tVALID\tSTATUS")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
				row.ID, row.Regions, row.Size, row.User, row.Created,
				row.Valid, row.Status)
		}
		w.Flush()

	case "update":
		if len(args) < 1 {
			printUsageAndExit()
		}
		err := quotas.Update(connect(cfg).Client, quotas.UpdateOpts{
			Size:    args[0],
			Regions: args[1:],
		})
		if adjutant.IsQuotaConflict(err) {
			logg.Fatal("cannot change to size %q: current usage exceeds it", args[0])
		}
		failOnError(err)
		logg.Info("quota update submitted (it may still need admin approval)")

	default:
		printUsageAndExit()
	}
}

////////////////////////////////////////////////////////////////////////////////
// signup

func signupCommand(cfg Configuration, args []string) {
	args, setupNetwork := popFlag(args, "--setup-network")
	if len(args) < 2 || len(args) > 3 {
		printUsageAndExit()
	}
	opts := users.SignUpOpts{
		Email:        args[0],
		ProjectName:  args[1],
		SetupNetwork: setupNetwork,
	}
	if len(args) == 3 {
		opts.Username = args[2]
	}
	failOnError(users.SignUp(unauthenticatedClient(cfg), opts))
	logg.Info("sign-up submitted; it will be reviewed before the project is created")
}

////////////////////////////////////////////////////////////////////////////////
// helpers

func singleArg(args []string) string {
	if len(args) != 1 {
		printUsageAndExit()
	}
	return args[0]
}

func parsePage(arg string) int {
	page, err := strconv.Atoi(arg)
	if err != nil || page < 1 {
		logg.Fatal("not a valid page number: %s", arg)
	}
	return page
}

func parseJSONObject(arg string) (map[string]any, error) {
	var fields map[string]any
	err := json.Unmarshal([]byte(arg), &fields)
	if err != nil {
		return nil, adjutant.ValidationError{Message: "not a JSON object: " + arg}
	}
	return fields, nil
}

func popFlag(args []string, flag string) ([]string, bool) {
	result := make([]string, 0, len(args))
	found := false
	for _, arg := range args {
		if arg == flag {
			found = true
		} else {
			result = append(result, arg)
		}
	}
	return result, found
}

func printPageFooter(page int, hasPrev, hasMore bool) {
	switch {
	case hasPrev && hasMore:
		fmt.Printf("(page %d; more results on pages %d and %d)\n", page, page-1, page+1)
	case hasPrev:
		fmt.Printf("(page %d; more results on page %d)\n", page, page-1)
	case hasMore:
		fmt.Printf("(page %d; more results on page %d)\n", page, page+1)
	}
}
