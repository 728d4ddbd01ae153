package display

import (
	"encoding/json"
	"io"

	"github.com/samber/lo"

	"github.com/weavex/quotabar/internal/actionbar"
	"github.com/weavex/quotabar/internal/widget"
)

// OutputJSON writes pretty-printed JSON to the given writer.
func OutputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// QuotaToJSON converts a widget state to its JSON form. credits_usd is null
// whenever the credits field holds a sentinel.
func QuotaToJSON(st widget.State) QuotaJSON {
	out := QuotaJSON{
		Phase:      st.Phase.String(),
		Credits:    st.View.Credits,
		Expiration: st.View.Expiration,
	}
	if st.Phase == widget.Display && st.View.OK() {
		usd := st.View.CreditsUSD
		out.CreditsUSD = &usd
	}
	if st.Err != nil {
		out.Error = st.Err.Error()
	}
	return out
}

// ActionsToJSON converts resolved actions to their JSON form.
func ActionsToJSON(actions []actionbar.Action) []ActionJSON {
	return lo.Map(actions, func(a actionbar.Action, _ int) ActionJSON {
		return ActionJSON{Key: string(a.Key), Title: a.Title, Description: a.Description}
	})
}
