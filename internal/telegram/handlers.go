package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"menu-bot/internal/app"
	"menu-bot/internal/family"
	"menu-bot/internal/grocery"
	"menu-bot/internal/planner"
	"menu-bot/internal/rating"
)

const helpText = `*Menu Bot*
/join - join the family roster (add "kid" for a kid account)
/plan - plan next week's dinners
/regenerate <day> - swap one day's meal
/grocery - build the grocery list for the plan
/summary - stats for the current plan
/explain - why this week's lineup
/rate <day> <1-5> [again] - rate a meal from the current plan
/feedback - list weeks still waiting on ratings
/check <item> - tick an item off while shopping
/move <item> <store> - send an item to a different store
/linktasks - connect Google Tasks
/synctasks - push the approved list to Google Tasks

Paste a recipe URL to add it to the collection.`

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleIngestURL(ctx, msg, text)
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		b.send(msg.Chat.ID, helpText)
	case "join":
		b.handleJoin(ctx, msg, args)
	case "plan":
		b.handlePlan(ctx, msg)
	case "regenerate":
		b.handleRegenerate(ctx, msg, args)
	case "grocery":
		b.handleGrocery(ctx, msg)
	case "summary":
		b.handleSummary(ctx, msg)
	case "explain":
		b.handleExplain(ctx, msg)
	case "rate":
		b.handleRate(ctx, msg, args)
	case "feedback":
		b.handleFeedback(ctx, msg)
	case "check":
		b.handleCheck(ctx, msg, args)
	case "move":
		b.handleMove(ctx, msg, args)
	case "linktasks":
		b.handleLinkTasks(msg)
	case "synctasks":
		b.handleSyncTasks(ctx, msg)
	default:
		b.send(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func userID(msg *tgbotapi.Message) string {
	return strconv.FormatInt(msg.From.ID, 10)
}

func (b *Bot) handleJoin(ctx context.Context, msg *tgbotapi.Message, args string) {
	class := family.ClassAdult
	if strings.EqualFold(args, "kid") {
		class = family.ClassKid
	}

	// The first person to join a fresh roster becomes a parent.
	members, err := b.app.Family.GetAllMembers(ctx)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}

	name := msg.From.FirstName
	if name == "" {
		name = msg.From.UserName
	}
	member := family.Member{
		ChatUserID: userID(msg),
		Name:       name,
		Class:      class,
		IsParent:   len(members) == 0 && class == family.ClassAdult,
	}
	if err := b.app.Family.SaveMember(ctx, member); err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}

	role := string(class)
	if member.IsParent {
		role = "parent"
	}
	b.send(msg.Chat.ID, fmt.Sprintf("Welcome %s! You're on the roster as a %s.", name, role))
}

func (b *Bot) handlePlan(ctx context.Context, msg *tgbotapi.Message) {
	status, _ := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "🧑‍🍳 Planning next week..."))

	plan, err := b.app.GenerateWeeklyPlan(ctx, time.Time{}, 7)
	if err != nil {
		b.edit(msg.Chat.ID, status.MessageID, errorText(err))
		return
	}

	b.edit(msg.Chat.ID, status.MessageID, planner.FormatPlan(plan))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", "approve_plan|"+plan.ID),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Redo", "redo_plan|"+plan.ID),
		),
	)
	prompt := tgbotapi.NewMessage(msg.Chat.ID, "Approve this plan? (parents only)")
	prompt.ReplyMarkup = keyboard
	b.api.Send(prompt)
}

func (b *Bot) handleRegenerate(ctx context.Context, msg *tgbotapi.Message, day string) {
	if day == "" {
		b.send(msg.Chat.ID, "Usage: /regenerate <day>, e.g. /regenerate Tuesday")
		return
	}
	plan, err := b.currentOrPendingPlan(ctx)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}

	plan, err = b.app.RegenerateDay(ctx, plan.ID, titleDay(day))
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	b.send(msg.Chat.ID, planner.FormatPlan(plan))
}

func (b *Bot) handleGrocery(ctx context.Context, msg *tgbotapi.Message) {
	plan, err := b.currentOrPendingPlan(ctx)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}

	list, err := b.app.GenerateGroceryList(ctx, plan.ID)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	b.send(msg.Chat.ID, b.app.Optimizer.FormatAsText(list))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve list", "approve_list|"+list.ID),
		),
	)
	prompt := tgbotapi.NewMessage(msg.Chat.ID, "Approve this grocery list? (parents only)")
	prompt.ReplyMarkup = keyboard
	b.api.Send(prompt)
}

func (b *Bot) handleSummary(ctx context.Context, msg *tgbotapi.Message) {
	plan, err := b.currentOrPendingPlan(ctx)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	s, err := b.app.PlanSummary(ctx, plan)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf(
		"📊 *Week of %s*\nMeals: %d\nAvg prep: %.0f min, avg cook: %.0f min\nKid-friendly: %d\nHealthy: %d\nQuick: %d",
		plan.WeekStart, s.TotalMeals, s.AvgPrepTimeMin, s.AvgCookTimeMin,
		s.KidFriendly, s.Healthy, s.QuickMeals))
}

func (b *Bot) handleExplain(ctx context.Context, msg *tgbotapi.Message) {
	plan, err := b.currentOrPendingPlan(ctx)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	note, err := b.app.ExplainPlan(ctx, plan)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	b.send(msg.Chat.ID, note)
}

func (b *Bot) handleRate(ctx context.Context, msg *tgbotapi.Message, args string) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		b.send(msg.Chat.ID, "Usage: /rate <day> <1-5> [again]")
		return
	}

	score, err := strconv.Atoi(parts[1])
	if err != nil || score < 1 || score > 5 {
		b.send(msg.Chat.ID, "The score must be a number from 1 to 5.")
		return
	}

	plan, err := b.currentOrPendingPlan(ctx)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}

	day := titleDay(parts[0])
	var entry *planner.MealPlanEntry
	for i := range plan.Meals {
		if plan.Meals[i].DayOfWeek == day {
			entry = &plan.Meals[i]
			break
		}
	}
	if entry == nil {
		b.send(msg.Chat.ID, fmt.Sprintf("No meal planned for %s.", day))
		return
	}

	rt := newRating(entry, plan.ID, userID(msg), score, parts[2:])
	if err := b.app.RecordRating(ctx, rt); err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf("Got it, %s rated %d/5. Thanks!", entry.RecipeName, score))
}

func (b *Bot) handleFeedback(ctx context.Context, msg *tgbotapi.Message) {
	plans, err := b.app.PlansAwaitingFeedback(ctx)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	if len(plans) == 0 {
		b.send(msg.Chat.ID, "All caught up, no weeks waiting on ratings.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Weeks still waiting on ratings:\n")
	for _, p := range plans {
		fmt.Fprintf(&sb, "• week of %s (%d meals)\n", p.WeekStart, len(p.Meals))
	}
	sb.WriteString("\nUse /rate <day> <1-5> to weigh in.")
	b.send(msg.Chat.ID, sb.String())
}

func (b *Bot) handleCheck(ctx context.Context, msg *tgbotapi.Message, item string) {
	if item == "" {
		b.send(msg.Chat.ID, "Usage: /check <item name>")
		return
	}
	list, err := b.currentList(ctx)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	if err := b.app.CheckGroceryItem(ctx, list.ID, item, true); err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf("☑️ %s", item))
}

func (b *Bot) handleMove(ctx context.Context, msg *tgbotapi.Message, args string) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		b.send(msg.Chat.ID, "Usage: /move <item> <store id>")
		return
	}
	store := parts[len(parts)-1]
	item := strings.Join(parts[:len(parts)-1], " ")

	list, err := b.currentList(ctx)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	if err := b.app.MoveGroceryItem(ctx, list.ID, item, store); err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf("Moved %s to %s.", item, b.app.GroceryCfg.StoreName(store)))
}

func (b *Bot) handleLinkTasks(msg *tgbotapi.Message) {
	if b.app.TasksAuth == nil {
		b.send(msg.Chat.ID, "Google Tasks sync is not configured on this deployment.")
		return
	}
	url, err := b.app.TasksAuth.AuthURL(msg.From.ID)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf("Connect your Google account here:\n%s", url))
}

func (b *Bot) handleSyncTasks(ctx context.Context, msg *tgbotapi.Message) {
	list, err := b.currentList(ctx)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}

	results, err := b.app.SyncGroceryList(ctx, list.ID)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	if len(results) == 0 {
		b.send(msg.Chat.ID, "Nobody has linked Google Tasks yet. Use /linktasks.")
		return
	}
	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "Pushed %d items", r.Pushed)
		if len(r.Failed) > 0 {
			fmt.Fprintf(&sb, " (%d failed)", len(r.Failed))
		}
		sb.WriteString("\n")
	}
	b.send(msg.Chat.ID, sb.String())
}

func (b *Bot) handleIngestURL(ctx context.Context, msg *tgbotapi.Message, url string) {
	status, _ := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "✂️ Reading recipe..."))

	rec, err := b.app.IngestRecipeFromURL(ctx, url, userID(msg))
	if err != nil {
		b.edit(msg.Chat.ID, status.MessageID, errorText(err))
		return
	}

	b.edit(msg.Chat.ID, status.MessageID,
		fmt.Sprintf("Saved *%s* (%d ingredients). A parent needs to approve it before it shows up in plans.",
			rec.Name, len(rec.Ingredients)))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve recipe", "approve_recipe|"+rec.ID),
		),
	)
	prompt := tgbotapi.NewMessage(msg.Chat.ID, "Approve for planning? (parents only)")
	prompt.ReplyMarkup = keyboard
	b.api.Send(prompt)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	parts := strings.SplitN(query.Data, "|", 2)
	if len(parts) != 2 {
		return
	}
	action, id := parts[0], parts[1]
	chatID := query.Message.Chat.ID
	uid := strconv.FormatInt(query.From.ID, 10)

	var err error
	switch action {
	case "approve_plan":
		if err = b.app.ApprovePlan(ctx, id, uid); err == nil {
			b.send(chatID, "Plan approved and active. Run /grocery when you're ready to shop.")
		}
	case "redo_plan":
		var plan *planner.MealPlan
		if plan, err = b.app.GenerateWeeklyPlan(ctx, time.Time{}, 7); err == nil {
			b.send(chatID, planner.FormatPlan(plan))
		}
	case "approve_list":
		if err = b.app.ApproveGroceryList(ctx, id, uid); err == nil {
			b.send(chatID, "Grocery list approved. Use /synctasks to send it to Google Tasks.")
		}
	case "approve_recipe":
		if err = b.app.ApproveRecipe(ctx, id, uid); err == nil {
			b.send(chatID, "Recipe approved and in the planning pool.")
		}
	default:
		return
	}

	if err != nil {
		b.sendError(chatID, err)
	}
}

func (b *Bot) currentOrPendingPlan(ctx context.Context) (*planner.MealPlan, error) {
	plan, err := b.app.Plans.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		plan, err = b.app.Plans.GetPending(ctx)
		if err != nil {
			return nil, err
		}
	}
	if plan == nil {
		return nil, fmt.Errorf("no meal plan yet; run /plan first")
	}
	return plan, nil
}

func (b *Bot) currentList(ctx context.Context) (*grocery.List, error) {
	plan, err := b.currentOrPendingPlan(ctx)
	if err != nil {
		return nil, err
	}
	list, err := b.app.Lists.GetForPlan(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("no grocery list for this plan; run /grocery first")
	}
	return list, nil
}

func (b *Bot) sendError(chatID int64, err error) {
	b.log.Error("command failed", zap.Error(err))
	b.send(chatID, errorText(err))
}

func titleDay(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func newRating(entry *planner.MealPlanEntry, planID, uid string, score int, flags []string) *rating.Rating {
	rt := &rating.Rating{
		RecipeID:   entry.RecipeID,
		UserID:     uid,
		Score:      score,
		MealPlanID: planID,
	}
	for _, f := range flags {
		if strings.EqualFold(f, "again") {
			yes := true
			rt.WouldRepeat = &yes
		}
	}
	return rt
}

func errorText(err error) string {
	var notEnough *app.NotEnoughRecipesError
	if errors.As(err, &notEnough) || errors.Is(err, app.ErrNotParent) {
		return "⚠️ " + err.Error()
	}
	safe := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ Something went wrong:\n```\n%s\n```", safe)
}
