package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/swiftstay/admin/internal/api"
)

// propertyFlags are the property fields settable from the command line
type propertyFlags struct {
	file, name, description, propertyType, location, city, region, image, category string
	price                                                                         float64
}

func (f *propertyFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "JSON or YAML file with the property")
	cmd.Flags().StringVar(&f.name, "name", "", "Property name")
	cmd.Flags().StringVar(&f.description, "description", "", "Description (at least 10 characters)")
	cmd.Flags().StringVar(&f.propertyType, "type", "", "Property type")
	cmd.Flags().StringVar(&f.location, "location", "", "Street or area")
	cmd.Flags().StringVar(&f.city, "city", "", "City")
	cmd.Flags().StringVar(&f.region, "region", "", "Region")
	cmd.Flags().StringVar(&f.image, "image", "", "Main image URL")
	cmd.Flags().StringVar(&f.category, "category", "", "Category ID")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Price")
}

// apply overlays the file and then the flags that were set onto in
func (f *propertyFlags) apply(cmd *cobra.Command, in *api.PropertyInput) error {
	if f.file != "" {
		if err := readPayload(f.file, in); err != nil {
			return err
		}
	}

	set := cmd.Flags().Changed
	if set("name") {
		in.Name = f.name
	}
	if set("description") {
		in.Description = f.description
	}
	if set("type") {
		in.PropertyType = f.propertyType
	}
	if set("location") {
		in.Location = f.location
	}
	if set("city") {
		in.City = f.city
	}
	if set("region") {
		in.Region = f.region
	}
	if set("image") {
		in.MainImageURL = f.image
	}
	if set("category") {
		in.CategoryID = f.category
	}
	if set("price") {
		in.Price = f.price
	}
	return nil
}

func propertyInput(p *api.Property) api.PropertyInput {
	in := api.PropertyInput{
		Name:                p.Name,
		Description:         p.Description,
		PropertyType:        p.PropertyType,
		MainImageURL:        p.MainImageURL,
		AdditionalImageURLs: p.AdditionalImageURLs,
		Location:            p.Location,
		City:                p.City,
		Region:              p.Region,
		Price:               float64(p.Price),
		Currency:            p.Currency,
		CategoryID:          p.CategoryID,
		Amenities:           p.Amenities,
		ContactInfo:         p.ContactInfo,
		IsActive:            &p.IsActive,
		IsFeatured:          &p.IsFeatured,
	}
	if p.Latitude != 0 || p.Longitude != 0 {
		lat, lng := float64(p.Latitude), float64(p.Longitude)
		in.Latitude, in.Longitude = &lat, &lng
	}
	return in
}

func propertyTable(items []api.Property) *table {
	t := &table{header: []string{"ID", "NAME", "CITY", "PRICE", "ACTIVE", "FEATURED"}}
	for _, p := range items {
		t.add(p.ID, p.Name, p.City, money(p.Price, p.Currency), yesNo(p.IsActive), yesNo(p.IsFeatured))
	}
	return t
}

// NewPropertiesCmd creates the properties command group
func NewPropertiesCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"property"},
		Short:   "Manage properties",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := unwrap(env.Client.ListProperties(cmd.Context()))
			if err != nil {
				return err
			}
			return env.emit(list, propertyTable(*list))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := unwrap(env.Client.GetProperty(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			return env.emit(p, propertyTable([]api.Property{*p}))
		},
	})

	var create propertyFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a property",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in api.PropertyInput
			if err := create.apply(cmd, &in); err != nil {
				return err
			}
			p, err := unwrap(env.Client.CreateProperty(cmd.Context(), in))
			if err != nil {
				return err
			}
			return env.emit(p, propertyTable([]api.Property{*p}))
		},
	}
	create.bind(createCmd)
	cmd.AddCommand(createCmd)

	var update propertyFlags
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := unwrap(env.Client.GetProperty(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			in := propertyInput(current)
			if err := update.apply(cmd, &in); err != nil {
				return err
			}
			p, err := unwrap(env.Client.UpdateProperty(cmd.Context(), args[0], in))
			if err != nil {
				return err
			}
			return env.emit(p, propertyTable([]api.Property{*p}))
		},
	}
	update.bind(updateCmd)
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(deleteCmd(env, "property", func(ctx context.Context, id string) (*api.RawEnvelope, error) {
		return env.Client.DeleteProperty(ctx, id)
	}))

	return cmd
}

// deleteCmd builds a confirmed delete subcommand
func deleteCmd(env *Env, what string, del func(context.Context, string) (*api.RawEnvelope, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", what),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := env.confirmDelete(cmd, fmt.Sprintf("%s %s", what, args[0]))
			if err != nil || !ok {
				return err
			}
			res, err := succeeded(del(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			return env.done(res, fmt.Sprintf("Deleted %s %s", what, args[0]))
		},
	}
	addYesFlag(cmd)
	return cmd
}

func categoryTable(items []api.Category) *table {
	t := &table{header: []string{"ID", "NAME", "ICON", "COLOR", "ACTIVE"}}
	for _, c := range items {
		t.add(c.ID, c.Name, c.Icon, c.Color, yesNo(c.IsActive))
	}
	return t
}

// NewCategoriesCmd creates the categories command group
func NewCategoriesCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage property categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := unwrap(env.Client.ListCategories(cmd.Context()))
			if err != nil {
				return err
			}
			return env.emit(list, categoryTable(*list))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := unwrap(env.Client.GetCategory(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			return env.emit(c, categoryTable([]api.Category{*c}))
		},
	})

	var file, name, description, icon, color string
	bind := func(c *cobra.Command) {
		c.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML file with the category")
		c.Flags().StringVar(&name, "name", "", "Category name")
		c.Flags().StringVar(&description, "description", "", "Description")
		c.Flags().StringVar(&icon, "icon", "", "Icon name")
		c.Flags().StringVar(&color, "color", "", "Color (hex)")
	}
	apply := func(c *cobra.Command, in *api.CategoryInput) error {
		if file != "" {
			if err := readPayload(file, in); err != nil {
				return err
			}
		}
		set := c.Flags().Changed
		if set("name") {
			in.Name = name
		}
		if set("description") {
			in.Description = description
		}
		if set("icon") {
			in.Icon = icon
		}
		if set("color") {
			in.Color = color
		}
		return nil
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in api.CategoryInput
			if err := apply(cmd, &in); err != nil {
				return err
			}
			c, err := unwrap(env.Client.CreateCategory(cmd.Context(), in))
			if err != nil {
				return err
			}
			return env.emit(c, categoryTable([]api.Category{*c}))
		},
	}
	bind(createCmd)
	cmd.AddCommand(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := unwrap(env.Client.GetCategory(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			in := api.CategoryInput{
				Name:        current.Name,
				Description: current.Description,
				Icon:        current.Icon,
				Color:       current.Color,
				IsActive:    &current.IsActive,
			}
			if err := apply(cmd, &in); err != nil {
				return err
			}
			c, err := unwrap(env.Client.UpdateCategory(cmd.Context(), args[0], in))
			if err != nil {
				return err
			}
			return env.emit(c, categoryTable([]api.Category{*c}))
		},
	}
	bind(updateCmd)
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(deleteCmd(env, "category", func(ctx context.Context, id string) (*api.RawEnvelope, error) {
		return env.Client.DeleteCategory(ctx, id)
	}))

	return cmd
}

func roomTypeTable(items []api.RoomType) *table {
	t := &table{header: []string{"ID", "NAME", "PROPERTY", "GENDER", "CAPACITY", "PRICE", "AVAILABLE"}}
	for _, r := range items {
		t.add(r.ID, r.Name, r.PropertyID, r.GenderType, strconv.Itoa(r.Capacity),
			money(r.Price, r.Currency), fmt.Sprintf("%d/%d", r.AvailableRooms, r.TotalRooms))
	}
	return t
}

// NewRoomTypesCmd creates the room-types command group
func NewRoomTypesCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "room-types",
		Aliases: []string{"room-type", "rooms"},
		Short:   "Manage room types",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all room types",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := unwrap(env.Client.ListRoomTypes(cmd.Context()))
			if err != nil {
				return err
			}
			return env.emit(list, roomTypeTable(*list))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a room type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := unwrap(env.Client.GetRoomType(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			return env.emit(r, roomTypeTable([]api.RoomType{*r}))
		},
	})

	var file, name, description, gender, property string
	var capacity, totalRooms, availableRooms int
	var price float64
	bind := func(c *cobra.Command) {
		c.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML file with the room type")
		c.Flags().StringVar(&name, "name", "", "Room type name")
		c.Flags().StringVar(&description, "description", "", "Description (at least 10 characters)")
		c.Flags().StringVar(&gender, "gender", "", "MALE, FEMALE, MIXED or ANY")
		c.Flags().StringVar(&property, "property", "", "Property ID")
		c.Flags().IntVar(&capacity, "capacity", 0, "Guests per room")
		c.Flags().IntVar(&totalRooms, "total-rooms", 0, "Number of rooms")
		c.Flags().IntVar(&availableRooms, "available-rooms", 0, "Number of free rooms")
		c.Flags().Float64Var(&price, "price", 0, "Price")
	}
	apply := func(c *cobra.Command, in *api.RoomTypeInput) error {
		if file != "" {
			if err := readPayload(file, in); err != nil {
				return err
			}
		}
		set := c.Flags().Changed
		if set("name") {
			in.Name = name
		}
		if set("description") {
			in.Description = description
		}
		if set("gender") {
			in.GenderType = gender
		}
		if set("property") {
			in.PropertyID = property
		}
		if set("capacity") {
			in.Capacity = capacity
		}
		if set("total-rooms") {
			in.TotalRooms = totalRooms
		}
		if set("available-rooms") {
			in.AvailableRooms = availableRooms
		}
		if set("price") {
			in.Price = price
		}
		return nil
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room type",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in api.RoomTypeInput
			if err := apply(cmd, &in); err != nil {
				return err
			}
			r, err := unwrap(env.Client.CreateRoomType(cmd.Context(), in))
			if err != nil {
				return err
			}
			return env.emit(r, roomTypeTable([]api.RoomType{*r}))
		},
	}
	bind(createCmd)
	cmd.AddCommand(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a room type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := unwrap(env.Client.GetRoomType(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			in := api.RoomTypeInput{
				Name:           current.Name,
				Description:    current.Description,
				Capacity:       current.Capacity,
				Price:          float64(current.Price),
				Currency:       current.Currency,
				GenderType:     current.GenderType,
				PropertyID:     current.PropertyID,
				Amenities:      current.Amenities,
				ImageURL:       current.ImageURL,
				TotalRooms:     current.TotalRooms,
				AvailableRooms: current.AvailableRooms,
			}
			if err := apply(cmd, &in); err != nil {
				return err
			}
			r, err := unwrap(env.Client.UpdateRoomType(cmd.Context(), args[0], in))
			if err != nil {
				return err
			}
			return env.emit(r, roomTypeTable([]api.RoomType{*r}))
		},
	}
	bind(updateCmd)
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(deleteCmd(env, "room type", func(ctx context.Context, id string) (*api.RawEnvelope, error) {
		return env.Client.DeleteRoomType(ctx, id)
	}))

	return cmd
}

func regionTable(items []api.RegionalSection) *table {
	t := &table{header: []string{"ID", "NAME", "ORDER", "ACTIVE", "PROPERTIES"}}
	for _, r := range items {
		t.add(r.ID, r.Name, strconv.Itoa(r.DisplayOrder), yesNo(r.IsActive), strconv.Itoa(len(r.Properties)))
	}
	return t
}

// NewRegionsCmd creates the regions command group for regional sections
func NewRegionsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "regions",
		Aliases: []string{"region", "regional-sections"},
		Short:   "Manage regional sections",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all regional sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := unwrap(env.Client.ListRegionalSections(cmd.Context()))
			if err != nil {
				return err
			}
			return env.emit(list, regionTable(*list))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a regional section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := unwrap(env.Client.GetRegionalSection(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			return env.emit(r, regionTable([]api.RegionalSection{*r}))
		},
	})

	var file, name string
	var order int
	var active bool
	bind := func(c *cobra.Command) {
		c.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML file with the regional section")
		c.Flags().StringVar(&name, "name", "", "Section name")
		c.Flags().IntVar(&order, "order", 0, "Display order")
		c.Flags().BoolVar(&active, "active", true, "Whether the section is shown")
	}
	apply := func(c *cobra.Command, in *api.RegionalSectionInput) error {
		if file != "" {
			if err := readPayload(file, in); err != nil {
				return err
			}
		}
		set := c.Flags().Changed
		if set("name") {
			in.Name = name
		}
		if set("order") {
			in.DisplayOrder = &order
		}
		if set("active") {
			in.IsActive = &active
		}
		return nil
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a regional section",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in api.RegionalSectionInput
			if err := apply(cmd, &in); err != nil {
				return err
			}
			r, err := unwrap(env.Client.CreateRegionalSection(cmd.Context(), in))
			if err != nil {
				return err
			}
			return env.emit(r, regionTable([]api.RegionalSection{*r}))
		},
	}
	bind(createCmd)
	cmd.AddCommand(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a regional section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := unwrap(env.Client.GetRegionalSection(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			in := api.RegionalSectionInput{
				Name:         current.Name,
				DisplayOrder: &current.DisplayOrder,
				IsActive:     &current.IsActive,
			}
			if err := apply(cmd, &in); err != nil {
				return err
			}
			r, err := unwrap(env.Client.UpdateRegionalSection(cmd.Context(), args[0], in))
			if err != nil {
				return err
			}
			return env.emit(r, regionTable([]api.RegionalSection{*r}))
		},
	}
	bind(updateCmd)
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(deleteCmd(env, "regional section", func(ctx context.Context, id string) (*api.RawEnvelope, error) {
		return env.Client.DeleteRegionalSection(ctx, id)
	}))

	cmd.AddCommand(&cobra.Command{
		Use:   "assign <property-id> <section-id>",
		Short: "Add a property to a regional section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := succeeded(env.Client.AssignPropertyToRegionalSection(cmd.Context(), args[0], args[1]))
			if err != nil {
				return err
			}
			return env.done(res, fmt.Sprintf("Assigned property %s to section %s", args[0], args[1]))
		},
	})

	return cmd
}
